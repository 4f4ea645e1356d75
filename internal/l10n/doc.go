// Package l10n classifies changes to .strings localization resources.
//
// [ParseLine] extracts a key/value pair from a single unified-diff line of
// the form `+"key" = "value";`. A [Reconciler] consumes the patch lines of
// one or more files and pairs removed and added lines that share a key into
// modified entries; whatever stays unpaired is reported as added or deleted.
//
// [Category] describes a product area recognised by an exact path segment
// (SharedCode, Local, SmartCard, DreamTrip by default) together with the
// command hint printed when new translations land in it.
package l10n
