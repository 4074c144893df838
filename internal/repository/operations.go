package repository

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownOperation is returned when an Op has no entry in the operation table
var ErrUnknownOperation = errors.New("unknown operation")

// Op names a git command family exposed on a repository handle.
type Op string

// Operation describes how an Op is dispatched.
type Operation struct {
	Family             string
	RequiresSubcommand bool
}

// Op values are the git command names themselves.
const (
	OpAm                Op = "am"
	OpAdd               Op = "add"
	OpArchive           Op = "archive"
	OpBisect            Op = "bisect"
	OpBranch            Op = "branch"
	OpBundle            Op = "bundle"
	OpCheckout          Op = "checkout"
	OpCherryPick        Op = "cherry-pick"
	OpClean             Op = "clean"
	OpCommit            Op = "commit"
	OpDescribe          Op = "describe"
	OpDiff              Op = "diff"
	OpFetch             Op = "fetch"
	OpFormatPatch       Op = "format-patch"
	OpGc                Op = "gc"
	OpGrep              Op = "grep"
	OpInit              Op = "init"
	OpLog               Op = "log"
	OpMaintenance       Op = "maintenance"
	OpMerge             Op = "merge"
	OpMv                Op = "mv"
	OpNotes             Op = "notes"
	OpPull              Op = "pull"
	OpPush              Op = "push"
	OpRangeDiff         Op = "range-diff"
	OpRebase            Op = "rebase"
	OpReset             Op = "reset"
	OpRestore           Op = "restore"
	OpRevert            Op = "revert"
	OpRm                Op = "rm"
	OpShortlog          Op = "shortlog"
	OpShow              Op = "show"
	OpSparseCheckout    Op = "sparse-checkout"
	OpStash             Op = "stash"
	OpStatus            Op = "status"
	OpSubmodule         Op = "submodule"
	OpSwitch            Op = "switch"
	OpTag               Op = "tag"
	OpWhatchanged       Op = "whatchanged"
	OpWorktree          Op = "worktree"
	OpConfig            Op = "config"
	OpFastExport        Op = "fast-export"
	OpFastImport        Op = "fast-import"
	OpFilterBranch      Op = "filter-branch"
	OpMergetool         Op = "mergetool"
	OpPackRefs          Op = "pack-refs"
	OpPrune             Op = "prune"
	OpReflog            Op = "reflog"
	OpRemote            Op = "remote"
	OpRepack            Op = "repack"
	OpReplace           Op = "replace"
	OpAnnotate          Op = "annotate"
	OpBlame             Op = "blame"
	OpBugreport         Op = "bugreport"
	OpCountObjects      Op = "count-objects"
	OpDiagnose          Op = "diagnose"
	OpDifftool          Op = "difftool"
	OpFsck              Op = "fsck"
	OpMergeTree         Op = "merge-tree"
	OpRerere            Op = "rerere"
	OpShowBranch        Op = "show-branch"
	OpVerifyCommit      Op = "verify-commit"
	OpVerifyTag         Op = "verify-tag"
	OpArchimport        Op = "archimport"
	OpCvsexportcommit   Op = "cvsexportcommit"
	OpCvsimport         Op = "cvsimport"
	OpImapSend          Op = "imap-send"
	OpP4                Op = "p4"
	OpQuiltimport       Op = "quiltimport"
	OpRequestPull       Op = "request-pull"
	OpSendEmail         Op = "send-email"
	OpSvn               Op = "svn"
	OpApply             Op = "apply"
	OpCheckoutIndex     Op = "checkout-index"
	OpCommitGraph       Op = "commit-graph"
	OpCommitTree        Op = "commit-tree"
	OpHashObject        Op = "hash-object"
	OpIndexPack         Op = "index-pack"
	OpMergeFile         Op = "merge-file"
	OpMergeIndex        Op = "merge-index"
	OpMktag             Op = "mktag"
	OpMktree            Op = "mktree"
	OpMultiPackIndex    Op = "multi-pack-index"
	OpPackObjects       Op = "pack-objects"
	OpPrunePacked       Op = "prune-packed"
	OpReadTree          Op = "read-tree"
	OpSymbolicRef       Op = "symbolic-ref"
	OpUnpackObjects     Op = "unpack-objects"
	OpUpdateIndex       Op = "update-index"
	OpUpdateRef         Op = "update-ref"
	OpWriteTree         Op = "write-tree"
	OpCatFile           Op = "cat-file"
	OpCherry            Op = "cherry"
	OpDiffFiles         Op = "diff-files"
	OpDiffIndex         Op = "diff-index"
	OpDiffTree          Op = "diff-tree"
	OpForEachRef        Op = "for-each-ref"
	OpForEachRepo       Op = "for-each-repo"
	OpGetTarCommitID    Op = "get-tar-commit-id"
	OpLsFiles           Op = "ls-files"
	OpLsRemote          Op = "ls-remote"
	OpLsTree            Op = "ls-tree"
	OpMergeBase         Op = "merge-base"
	OpNameRev           Op = "name-rev"
	OpPackRedundant     Op = "pack-redundant"
	OpRevList           Op = "rev-list"
	OpRevParse          Op = "rev-parse"
	OpShowIndex         Op = "show-index"
	OpShowRef           Op = "show-ref"
	OpUnpackFile        Op = "unpack-file"
	OpVar               Op = "var"
	OpVerifyPack        Op = "verify-pack"
	OpFetchPack         Op = "fetch-pack"
	OpSendPack          Op = "send-pack"
	OpHttpFetch         Op = "http-fetch"
	OpHttpPush          Op = "http-push"
	OpReceivePack       Op = "receive-pack"
	OpUploadArchive     Op = "upload-archive"
	OpCheckAttr         Op = "check-attr"
	OpCheckIgnore       Op = "check-ignore"
	OpCheckMailmap      Op = "check-mailmap"
	OpCheckRefFormat    Op = "check-ref-format"
	OpColumn            Op = "column"
	OpCredential        Op = "credential"
	OpFmtMergeMsg       Op = "fmt-merge-msg"
	OpHook              Op = "hook"
	OpInterpretTrailers Op = "interpret-trailers"
	OpMailinfo          Op = "mailinfo"
	OpMailsplit         Op = "mailsplit"
	OpMergeOneFile      Op = "merge-one-file"
	OpPatchID           Op = "patch-id"
	OpStripspace        Op = "stripspace"
	OpClone             Op = "clone"
	OpHelp              Op = "help"
	OpVersion           Op = "version"
)

var operations = map[Op]Operation{
	OpAm:                {Family: "am"},
	OpAdd:               {Family: "add"},
	OpArchive:           {Family: "archive"},
	OpBisect:            {Family: "bisect", RequiresSubcommand: true},
	OpBranch:            {Family: "branch"},
	OpBundle:            {Family: "bundle", RequiresSubcommand: true},
	OpCheckout:          {Family: "checkout"},
	OpCherryPick:        {Family: "cherry-pick"},
	OpClean:             {Family: "clean"},
	OpCommit:            {Family: "commit"},
	OpDescribe:          {Family: "describe"},
	OpDiff:              {Family: "diff"},
	OpFetch:             {Family: "fetch"},
	OpFormatPatch:       {Family: "format-patch"},
	OpGc:                {Family: "gc"},
	OpGrep:              {Family: "grep"},
	OpInit:              {Family: "init"},
	OpLog:               {Family: "log"},
	OpMaintenance:       {Family: "maintenance", RequiresSubcommand: true},
	OpMerge:             {Family: "merge"},
	OpMv:                {Family: "mv"},
	OpNotes:             {Family: "notes", RequiresSubcommand: true},
	OpPull:              {Family: "pull"},
	OpPush:              {Family: "push"},
	OpRangeDiff:         {Family: "range-diff"},
	OpRebase:            {Family: "rebase"},
	OpReset:             {Family: "reset"},
	OpRestore:           {Family: "restore"},
	OpRevert:            {Family: "revert"},
	OpRm:                {Family: "rm"},
	OpShortlog:          {Family: "shortlog"},
	OpShow:              {Family: "show"},
	OpSparseCheckout:    {Family: "sparse-checkout", RequiresSubcommand: true},
	OpStash:             {Family: "stash", RequiresSubcommand: true},
	OpStatus:            {Family: "status"},
	OpSubmodule:         {Family: "submodule", RequiresSubcommand: true},
	OpSwitch:            {Family: "switch"},
	OpTag:               {Family: "tag"},
	OpWhatchanged:       {Family: "whatchanged"},
	OpWorktree:          {Family: "worktree", RequiresSubcommand: true},
	OpConfig:            {Family: "config"},
	OpFastExport:        {Family: "fast-export"},
	OpFastImport:        {Family: "fast-import"},
	OpFilterBranch:      {Family: "filter-branch"},
	OpMergetool:         {Family: "mergetool"},
	OpPackRefs:          {Family: "pack-refs"},
	OpPrune:             {Family: "prune"},
	OpReflog:            {Family: "reflog", RequiresSubcommand: true},
	OpRemote:            {Family: "remote", RequiresSubcommand: true},
	OpRepack:            {Family: "repack"},
	OpReplace:           {Family: "replace"},
	OpAnnotate:          {Family: "annotate"},
	OpBlame:             {Family: "blame"},
	OpBugreport:         {Family: "bugreport"},
	OpCountObjects:      {Family: "count-objects"},
	OpDiagnose:          {Family: "diagnose"},
	OpDifftool:          {Family: "difftool"},
	OpFsck:              {Family: "fsck"},
	OpMergeTree:         {Family: "merge-tree"},
	OpRerere:            {Family: "rerere"},
	OpShowBranch:        {Family: "show-branch"},
	OpVerifyCommit:      {Family: "verify-commit"},
	OpVerifyTag:         {Family: "verify-tag"},
	OpArchimport:        {Family: "archimport"},
	OpCvsexportcommit:   {Family: "cvsexportcommit"},
	OpCvsimport:         {Family: "cvsimport"},
	OpImapSend:          {Family: "imap-send"},
	OpP4:                {Family: "p4", RequiresSubcommand: true},
	OpQuiltimport:       {Family: "quiltimport"},
	OpRequestPull:       {Family: "request-pull"},
	OpSendEmail:         {Family: "send-email"},
	OpSvn:               {Family: "svn"},
	OpApply:             {Family: "apply"},
	OpCheckoutIndex:     {Family: "checkout-index"},
	OpCommitGraph:       {Family: "commit-graph", RequiresSubcommand: true},
	OpCommitTree:        {Family: "commit-tree"},
	OpHashObject:        {Family: "hash-object"},
	OpIndexPack:         {Family: "index-pack"},
	OpMergeFile:         {Family: "merge-file"},
	OpMergeIndex:        {Family: "merge-index"},
	OpMktag:             {Family: "mktag"},
	OpMktree:            {Family: "mktree"},
	OpMultiPackIndex:    {Family: "multi-pack-index"},
	OpPackObjects:       {Family: "pack-objects"},
	OpPrunePacked:       {Family: "prune-packed"},
	OpReadTree:          {Family: "read-tree"},
	OpSymbolicRef:       {Family: "symbolic-ref"},
	OpUnpackObjects:     {Family: "unpack-objects"},
	OpUpdateIndex:       {Family: "update-index"},
	OpUpdateRef:         {Family: "update-ref"},
	OpWriteTree:         {Family: "write-tree"},
	OpCatFile:           {Family: "cat-file"},
	OpCherry:            {Family: "cherry"},
	OpDiffFiles:         {Family: "diff-files"},
	OpDiffIndex:         {Family: "diff-index"},
	OpDiffTree:          {Family: "diff-tree"},
	OpForEachRef:        {Family: "for-each-ref"},
	OpForEachRepo:       {Family: "for-each-repo"},
	OpGetTarCommitID:    {Family: "get-tar-commit-id"},
	OpLsFiles:           {Family: "ls-files"},
	OpLsRemote:          {Family: "ls-remote"},
	OpLsTree:            {Family: "ls-tree"},
	OpMergeBase:         {Family: "merge-base"},
	OpNameRev:           {Family: "name-rev"},
	OpPackRedundant:     {Family: "pack-redundant"},
	OpRevList:           {Family: "rev-list"},
	OpRevParse:          {Family: "rev-parse"},
	OpShowIndex:         {Family: "show-index"},
	OpShowRef:           {Family: "show-ref"},
	OpUnpackFile:        {Family: "unpack-file"},
	OpVar:               {Family: "var"},
	OpVerifyPack:        {Family: "verify-pack"},
	OpFetchPack:         {Family: "fetch-pack"},
	OpSendPack:          {Family: "send-pack"},
	OpHttpFetch:         {Family: "http-fetch"},
	OpHttpPush:          {Family: "http-push"},
	OpReceivePack:       {Family: "receive-pack"},
	OpUploadArchive:     {Family: "upload-archive"},
	OpCheckAttr:         {Family: "check-attr"},
	OpCheckIgnore:       {Family: "check-ignore"},
	OpCheckMailmap:      {Family: "check-mailmap"},
	OpCheckRefFormat:    {Family: "check-ref-format"},
	OpColumn:            {Family: "column"},
	OpCredential:        {Family: "credential", RequiresSubcommand: true},
	OpFmtMergeMsg:       {Family: "fmt-merge-msg"},
	OpHook:              {Family: "hook", RequiresSubcommand: true},
	OpInterpretTrailers: {Family: "interpret-trailers"},
	OpMailinfo:          {Family: "mailinfo"},
	OpMailsplit:         {Family: "mailsplit"},
	OpMergeOneFile:      {Family: "merge-one-file"},
	OpPatchID:           {Family: "patch-id"},
	OpStripspace:        {Family: "stripspace"},
	OpClone:             {Family: "clone"},
	OpHelp:              {Family: "help"},
	OpVersion:           {Family: "version"},
}

// Lookup returns the table entry for op.
func Lookup(op Op) (Operation, error) {
	operation, ok := operations[op]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
	}
	return operation, nil
}

// Operations returns every known Op, sorted.
func Operations() []Op {
	ops := make([]Op, 0, len(operations))
	for op := range operations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
