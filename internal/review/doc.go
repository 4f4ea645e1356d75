// Package review turns a set of changed files into localization warnings.
//
// Run pulls deleted, added and modified file lists from a ChangeSet, keeps
// only Localizable .strings files and reports a warning for each deleted
// file, one per deleted translation key (after reconciling moves and edits
// across the diff), and one banner with the commands that refresh the
// affected translation bundles.
//
// Rules files (rules.go) let callers override the command categories, the
// banner text and the reconcile scope.
package review
