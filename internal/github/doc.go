// Package github reads pull request changes from the GitHub REST API and
// posts the localization warnings back as a pull request review.
//
// [PRChangeSet] adapts a pull request's file list to the reporter, so a PR
// is classified exactly like a local git change.
package github
