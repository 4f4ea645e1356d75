// Locguard is a CLI that checks the localization changes of a git change or
// GitHub pull request.
//
// It reads the Localizable.strings files a change deletes, adds and
// modifies, reports deleted files and deleted translation keys, and reminds
// you to upload new strings with the upload command of each matching
// category. Exit codes are deterministic, so it suits CI gating and git
// hooks.
//
// Usage:
//
//	locguard check unstaged                 # check working tree changes
//	locguard check staged                   # check staged changes
//	locguard check commit <sha>             # check a specific commit
//	locguard check range origin/main..HEAD  # check a revision range
//	locguard github 123                     # check a pull request and post a review
//	locguard hook install                   # run on every commit
package main
