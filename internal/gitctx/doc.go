// Package gitctx reads the file changes of a local git repository.
//
// A [ChangeSet] covers one of four modes (unstaged, staged, commit and
// range) by shelling out to git. File lists come from
// `git diff --name-status` and are filtered by doublestar include/exclude
// patterns; patches are fetched one file at a time.
package gitctx
