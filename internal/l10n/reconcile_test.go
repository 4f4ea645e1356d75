package l10n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(r *Reconciler, file string, lines ...string) {
	for _, l := range lines {
		r.Feed(file, l)
	}
}

func TestReconciler_DeleteThenAdd(t *testing.T) {
	r := NewReconciler(ScopeGlobal)
	feedAll(r, "a/Localizable.strings", `-"k" = "old";`, `+"k" = "new";`)

	mod := r.Modified()
	require.Len(t, mod, 1)
	assert.Equal(t, "k", mod[0].Key)
	assert.Equal(t, "new", mod[0].Value)
	require.NotNil(t, mod[0].OldValue)
	assert.Equal(t, "old", *mod[0].OldValue)
	assert.Equal(t, "a/Localizable.strings", mod[0].FileName)
	assert.Empty(t, r.Added())
	assert.Empty(t, r.Deleted())
}

func TestReconciler_AddThenDeleteIsSymmetric(t *testing.T) {
	forward := NewReconciler(ScopeGlobal)
	feedAll(forward, "f", `-"k"="old";`, `+"k"="new";`)

	backward := NewReconciler(ScopeGlobal)
	feedAll(backward, "f", `+"k"="new";`, `-"k"="old";`)

	assert.Equal(t, forward.Modified(), backward.Modified())
	assert.Empty(t, backward.Added())
	assert.Empty(t, backward.Deleted())
}

func TestReconciler_Unpaired(t *testing.T) {
	r := NewReconciler(ScopeGlobal)
	feedAll(r, "f", `-"x"="v";`, `+"y"="w";`)

	require.Len(t, r.Deleted(), 1)
	assert.Equal(t, Entry{Key: "x", Value: "v", FileName: "f"}, r.Deleted()[0])
	require.Len(t, r.Added(), 1)
	assert.Equal(t, Entry{Key: "y", Value: "w", FileName: "f"}, r.Added()[0])
	assert.Empty(t, r.Modified())
}

func TestReconciler_FirstPendingWins(t *testing.T) {
	r := NewReconciler(ScopeGlobal)
	feedAll(r, "f", `-"k"="one";`, `-"k"="two";`, `+"k"="new";`)

	mod := r.Modified()
	require.Len(t, mod, 1)
	assert.Equal(t, "one", *mod[0].OldValue)

	del := r.Deleted()
	require.Len(t, del, 1)
	assert.Equal(t, "two", del[0].Value)
}

func TestReconciler_CrossFileGlobal(t *testing.T) {
	r := NewReconciler(ScopeGlobal)
	feedAll(r, "A/Localizable.strings", `-"moved"="Text";`)
	feedAll(r, "B/Localizable.strings", `+"moved"="Text";`)

	mod := r.Modified()
	require.Len(t, mod, 1)
	assert.Equal(t, "B/Localizable.strings", mod[0].FileName)
	assert.Empty(t, r.Deleted())
	assert.Empty(t, r.Added())
}

func TestReconciler_CrossFileScopedToFile(t *testing.T) {
	r := NewReconciler(ScopeFile)
	feedAll(r, "A/Localizable.strings", `-"moved"="Text";`)
	feedAll(r, "B/Localizable.strings", `+"moved"="Text";`)

	assert.Empty(t, r.Modified())
	require.Len(t, r.Deleted(), 1)
	assert.Equal(t, "A/Localizable.strings", r.Deleted()[0].FileName)
	require.Len(t, r.Added(), 1)
	assert.Equal(t, "B/Localizable.strings", r.Added()[0].FileName)
}

func TestReconciler_IgnoresNonEntryLines(t *testing.T) {
	r := NewReconciler("")
	assert.Equal(t, ScopeGlobal, r.Scope())

	assert.False(t, r.Feed("f", `--- a/Localizable.strings`))
	assert.False(t, r.Feed("f", `+++ b/Localizable.strings`))
	assert.False(t, r.Feed("f", `@@ -1,2 +1,2 @@`))
	assert.False(t, r.Feed("f", ` "context" = "line";`))
	assert.False(t, r.Feed("f", `+"broken" = "no terminator"`))
	assert.False(t, r.Feed("f", `-"noequals";`))
	assert.False(t, r.Feed("f", `+/* comment */`))

	assert.Empty(t, r.Added())
	assert.Empty(t, r.Deleted())
	assert.Empty(t, r.Keys())
}

func TestReconciler_EmptyKeyNeverPending(t *testing.T) {
	r := NewReconciler(ScopeGlobal)
	assert.True(t, r.Feed("f", `+"" = "x";`))
	assert.True(t, r.Feed("f", `-"" = "y";`))

	assert.Empty(t, r.Added())
	assert.Empty(t, r.Deleted())
	assert.Empty(t, r.Modified())
	assert.Empty(t, r.Keys())
}

func TestReconciler_FeedPatch(t *testing.T) {
	patch := "@@ -1,3 +1,3 @@\n" +
		" \"same\" = \"Same\";\n" +
		"-\"hello\"=\"Hi\";\r\n" +
		"+\"hello\"=\"Hey\";\n" +
		"+\"bye\"=\"Bye\";\n"

	r := NewReconciler(ScopeGlobal)
	n := r.FeedPatch("B/SharedCode/Localizable.strings", strings.Lines(patch))

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"hello", "bye"}, r.Keys())
	require.Len(t, r.Modified(), 1)
	assert.Equal(t, "Hey", r.Modified()[0].Value)
	require.Len(t, r.Added(), 1)
	assert.Equal(t, "bye", r.Added()[0].Key)
	assert.Equal(t, []string{"B/SharedCode/Localizable.strings"}, r.AddedFiles())
}

func TestReconciler_KeysDeduplicated(t *testing.T) {
	r := NewReconciler(ScopeGlobal)
	feedAll(r, "f", `-"a"="1";`, `+"b"="2";`, `+"a"="3";`, `-"b"="4";`, `-"a"="5";`)
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}

func TestReconciler_DeletedByKey(t *testing.T) {
	r := NewReconciler(ScopeGlobal)
	feedAll(r, "one", `-"k"="1";`)
	feedAll(r, "two", `-"k"="2";`, `-"other"="3";`)

	got := r.DeletedByKey("k")
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].FileName)
	assert.Equal(t, "two", got[1].FileName)
	assert.Empty(t, r.DeletedByKey("missing"))
}

func TestReconciler_AccessorsReturnCopies(t *testing.T) {
	r := NewReconciler(ScopeGlobal)
	feedAll(r, "f", `+"k"="v";`)

	added := r.Added()
	added[0].Value = "changed"
	assert.Equal(t, "v", r.Added()[0].Value)
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeGlobal, s)

	s, err = ParseScope("file")
	require.NoError(t, err)
	assert.Equal(t, ScopeFile, s)

	_, err = ParseScope("repo")
	assert.Error(t, err)
}
