package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/obentoo/gitkit/internal/common/git"
)

// Scan records are one line each. A line is either a list of key=value pairs
// joined by "&" or a single JSON object (optionally followed by a comma):
//
//	name=lib&toplevel=/src/app&displaypath=vendor/lib&sm_path=vendor/lib&sha1=3f2a...&branch=main&tag=v1.2.0&dirty=0
//	{"name":"lib","toplevel":"/src/app",...,"dirty":"0"}
//
// Keys may carry a "[]" suffix. Every record must contain each key in
// scanFields exactly once and nothing else. Values cannot contain "&" or a
// line break. Blank lines are ignored.
const (
	fieldSeparator  = "&"
	recordSeparator = "\n"
	valueSeparator  = "="
)

const (
	fieldName        = "name"
	fieldTopLevel    = "toplevel"
	fieldDisplayPath = "displaypath"
	fieldModulePath  = "sm_path"
	fieldRevision    = "sha1"
	fieldBranch      = "branch"
	fieldTag         = "tag"
	fieldDirty       = "dirty"
)

// scanFields lists the record keys in encoding order
var scanFields = []string{
	fieldName, fieldTopLevel, fieldDisplayPath, fieldModulePath,
	fieldRevision, fieldBranch, fieldTag, fieldDirty,
}

// requiredValues must be non-empty in every record
var requiredValues = map[string]bool{
	fieldName:       true,
	fieldTopLevel:   true,
	fieldModulePath: true,
	fieldRevision:   true,
}

// SubmoduleRecord describes one submodule as reported by a scan.
// An empty Tag means the submodule has no reachable tag; an empty Branch
// means its HEAD is detached.
type SubmoduleRecord struct {
	Name        string
	TopLevel    string
	DisplayPath string
	ModulePath  string
	Revision    string
	Branch      string
	Tag         string
	Dirty       bool
}

// Path returns the absolute working tree path of the submodule
func (r SubmoduleRecord) Path() string {
	rel := r.ModulePath
	if rel == "" {
		rel = r.DisplayPath
	}
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(r.TopLevel, rel)
}

// ScanScript is the shell snippet run by "git submodule foreach" for each
// checked-out submodule. Dirty is the exit status of "git diff --quiet".
const ScanScript = `echo "name=$name&toplevel=$toplevel&displaypath=$displaypath&sm_path=$sm_path&sha1=$sha1` +
	`&branch=$(git symbolic-ref --short -q HEAD)` +
	`&tag=$(git describe --tags --abbrev=0 2>/dev/null)` +
	`&dirty=$(git diff --quiet && echo 0 || echo 1)"`

// ParseScanOutput decodes scan output into records.
// Empty output yields no records and no error.
func ParseScanOutput(output string) ([]SubmoduleRecord, error) {
	var records []SubmoduleRecord
	seen := make(map[string]int)

	for i, line := range strings.Split(output, recordSeparator) {
		lineNo := i + 1
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var (
			fields map[string]string
			err    error
		)
		if strings.HasPrefix(line, "{") {
			fields, err = parseJSONRecord(line)
		} else {
			fields, err = parsePairsRecord(line)
		}
		if err != nil {
			return nil, &git.MalformedScanOutputError{Line: lineNo, Reason: err.Error()}
		}

		record, err := recordFromFields(fields)
		if err != nil {
			return nil, &git.MalformedScanOutputError{Line: lineNo, Reason: err.Error()}
		}

		if first, dup := seen[record.Name]; dup {
			return nil, &git.MalformedScanOutputError{
				Line:   lineNo,
				Reason: fmt.Sprintf("submodule %q already listed at line %d", record.Name, first),
			}
		}
		seen[record.Name] = lineNo
		records = append(records, record)
	}

	return records, nil
}

// parsePairsRecord splits a key=value&key=value line
func parsePairsRecord(line string) (map[string]string, error) {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) != len(scanFields) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(scanFields), len(parts))
	}

	fields := make(map[string]string, len(parts))
	for _, part := range parts {
		key, value, ok := strings.Cut(part, valueSeparator)
		if !ok {
			return nil, fmt.Errorf("field %q has no %q", part, valueSeparator)
		}
		key = strings.TrimSuffix(key, "[]")
		if err := addField(fields, key, value); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

// parseJSONRecord decodes a one-line JSON object whose values are strings,
// except dirty which may also be a JSON boolean
func parseJSONRecord(line string) (map[string]string, error) {
	line = strings.TrimSuffix(line, ",")

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("invalid json: %v", err)
	}
	if len(raw) != len(scanFields) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(scanFields), len(raw))
	}

	fields := make(map[string]string, len(raw))
	for key, msg := range raw {
		var value string
		if err := json.Unmarshal(msg, &value); err != nil {
			var flag bool
			if key != fieldDirty || json.Unmarshal(msg, &flag) != nil {
				return nil, fmt.Errorf("field %q is not a string", key)
			}
			value = strconv.FormatBool(flag)
		}
		if strings.Contains(value, fieldSeparator) {
			return nil, fmt.Errorf("field %q contains %q", key, fieldSeparator)
		}
		if err := addField(fields, strings.TrimSuffix(key, "[]"), value); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

// addField stores key=value, rejecting unknown and repeated keys
func addField(fields map[string]string, key, value string) error {
	if !isScanField(key) {
		return fmt.Errorf("unknown field %q", key)
	}
	if _, dup := fields[key]; dup {
		return fmt.Errorf("field %q repeated", key)
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("field %q contains a line break", key)
	}
	fields[key] = value
	return nil
}

func isScanField(key string) bool {
	for _, f := range scanFields {
		if f == key {
			return true
		}
	}
	return false
}

// recordFromFields checks a complete field set and converts it
func recordFromFields(fields map[string]string) (SubmoduleRecord, error) {
	for _, key := range scanFields {
		value, ok := fields[key]
		if !ok {
			return SubmoduleRecord{}, fmt.Errorf("missing field %q", key)
		}
		if requiredValues[key] && value == "" {
			return SubmoduleRecord{}, fmt.Errorf("field %q is empty", key)
		}
	}

	dirty, err := strconv.ParseBool(fields[fieldDirty])
	if err != nil {
		return SubmoduleRecord{}, fmt.Errorf("field %q: %q is not a boolean", fieldDirty, fields[fieldDirty])
	}

	return SubmoduleRecord{
		Name:        fields[fieldName],
		TopLevel:    fields[fieldTopLevel],
		DisplayPath: fields[fieldDisplayPath],
		ModulePath:  fields[fieldModulePath],
		Revision:    fields[fieldRevision],
		Branch:      fields[fieldBranch],
		Tag:         fields[fieldTag],
		Dirty:       dirty,
	}, nil
}

// EncodeRecords renders records in the key=value&... line form.
// Values containing a separator cannot be represented and are rejected.
func EncodeRecords(records []SubmoduleRecord) (string, error) {
	var buf bytes.Buffer
	for i, record := range records {
		dirty := "0"
		if record.Dirty {
			dirty = "1"
		}
		values := []string{
			record.Name, record.TopLevel, record.DisplayPath, record.ModulePath,
			record.Revision, record.Branch, record.Tag, dirty,
		}

		for j, key := range scanFields {
			if strings.ContainsAny(values[j], fieldSeparator+"\r\n") {
				return "", &git.MalformedScanOutputError{
					Line:   i + 1,
					Reason: fmt.Sprintf("field %q value %q contains a separator", key, values[j]),
				}
			}
			if j > 0 {
				buf.WriteString(fieldSeparator)
			}
			buf.WriteString(key)
			buf.WriteString(valueSeparator)
			buf.WriteString(values[j])
		}
		buf.WriteString(recordSeparator)
	}
	return buf.String(), nil
}
