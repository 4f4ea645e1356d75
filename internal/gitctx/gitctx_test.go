package gitctx

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameStatus(t *testing.T) {
	out := "M\tApp/Localizable.strings\n" +
		"A\tApp/SharedCode/Localizable.strings\n" +
		"D\tOld/Localizable.strings\n" +
		"T\tLinked/Localizable.strings\n" +
		"U\tConflict/Localizable.strings\n" +
		"garbage\n"

	deleted, added, modified := parseNameStatus(out, nil, nil)
	assert.Equal(t, []string{"Old/Localizable.strings"}, deleted)
	assert.Equal(t, []string{"App/SharedCode/Localizable.strings"}, added)
	assert.Equal(t, []string{"App/Localizable.strings", "Linked/Localizable.strings"}, modified)
}

func TestParseNameStatus_Filters(t *testing.T) {
	out := "M\tApp/Localizable.strings\nM\tPods/Vendor/Localizable.strings\nM\tmain.go\n"

	_, _, modified := parseNameStatus(out, []string{"**/*.strings"}, []string{"Pods/**"})
	assert.Equal(t, []string{"App/Localizable.strings"}, modified)
}

func TestMatchesAny(t *testing.T) {
	tests := []struct {
		path     string
		patterns []string
		want     bool
	}{
		{"Pods/lib/Localizable.strings", []string{"Pods/**"}, true},
		{"App/Localizable.strings", []string{"Pods/**"}, false},
		{"Localizable.strings", []string{"**/*.strings"}, true},
		{"a/b/c/Localizable.strings", []string{"**/*.strings"}, true},
		{"a/build/x.strings", []string{"**/build/**"}, true},
		{"main.go", []string{"*.go"}, true},
		{"pkg/main.go", []string{"*.go"}, false},
		{"main.go", nil, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesAny(tt.path, tt.patterns), "MatchesAny(%q, %v)", tt.path, tt.patterns)
	}
}

func TestKeep(t *testing.T) {
	assert.True(t, Keep("a.strings", nil, nil))
	assert.False(t, Keep("a.go", []string{"**/*.strings"}, nil))
	assert.False(t, Keep("x/a.strings", []string{"**/*.strings"}, []string{"x/**"}))
}

func TestRangeMergeBase(t *testing.T) {
	assert.Equal(t, []string{"main...feature"}, Range("main..feature", true, Options{}).revs)
	assert.Equal(t, []string{"main..feature"}, Range("main..feature", false, Options{}).revs)
	assert.Equal(t, []string{"a...b"}, Range("a...b", true, Options{}).revs)
}

func TestCommitRevs(t *testing.T) {
	cs := Commit("abc", "", Options{})
	assert.Equal(t, []string{"abc~1", "abc"}, cs.revs)
	assert.Equal(t, "abc", cs.showRev)
	assert.Equal(t, ModeCommit, cs.Mode())
	assert.Equal(t, "abc", cs.Range())

	cs = Commit("abc", "def", Options{})
	assert.Equal(t, []string{"def", "abc"}, cs.revs)
	assert.Empty(t, cs.showRev)
}

type testRepo struct {
	t   *testing.T
	dir string
}

// newTestRepo creates a temp git repo with one committed translation file.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	r := &testRepo{t: t, dir: t.TempDir()}
	r.git("init")
	r.git("checkout", "-b", "main")
	r.write("App/Localizable.strings", "\"hello\" = \"Hi\";\n\"bye\" = \"Bye\";\n")
	r.write("Old/Localizable.strings", "\"old\" = \"Old\";\n")
	r.git("add", "-A")
	r.git("commit", "-m", "init")
	return r
}

func (r *testRepo) git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@test.com",
		"GIT_CONFIG_GLOBAL=/dev/null",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(r.t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

func (r *testRepo) write(path, content string) {
	r.t.Helper()
	full := filepath.Join(r.dir, path)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
}

func (r *testRepo) change() {
	r.write("App/Localizable.strings", "\"hello\" = \"Hey\";\n\"bye\" = \"Bye\";\n")
	r.write("New/Localizable.strings", "\"fresh\" = \"Fresh\";\n")
	r.git("rm", "-q", "Old/Localizable.strings")
}

func assertFiles(t *testing.T, cs *ChangeSet, deleted, added, modified []string) {
	t.Helper()
	ctx := context.Background()
	d, err := cs.DeletedFiles(ctx)
	require.NoError(t, err)
	a, err := cs.AddedFiles(ctx)
	require.NoError(t, err)
	m, err := cs.ModifiedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, deleted, d, "deleted")
	assert.Equal(t, added, a, "added")
	assert.Equal(t, modified, m, "modified")
}

func TestStaged(t *testing.T) {
	r := newTestRepo(t)
	r.change()
	r.git("add", "-A")

	cs := Staged(Options{Dir: r.dir, ContextLines: 0})
	assertFiles(t, cs,
		[]string{"Old/Localizable.strings"},
		[]string{"New/Localizable.strings"},
		[]string{"App/Localizable.strings"})

	patch, err := cs.Patch(context.Background(), "App/Localizable.strings")
	require.NoError(t, err)
	assert.Contains(t, patch, "-\"hello\" = \"Hi\";")
	assert.Contains(t, patch, "+\"hello\" = \"Hey\";")
	assert.NotContains(t, patch, "bye", "no context lines requested")
}

func TestUnstaged(t *testing.T) {
	r := newTestRepo(t)
	r.write("App/Localizable.strings", "\"hello\" = \"Hi\";\n")

	cs := Unstaged(Options{Dir: r.dir})
	assertFiles(t, cs, nil, nil, []string{"App/Localizable.strings"})
	assert.Equal(t, ModeUnstaged, cs.Mode())
}

func TestCommitAndRange(t *testing.T) {
	r := newTestRepo(t)
	base := r.git("rev-parse", "HEAD")
	r.change()
	r.git("add", "-A")
	r.git("commit", "-m", "change")
	head := r.git("rev-parse", "HEAD")

	assertFiles(t, Commit(head, "", Options{Dir: r.dir}),
		[]string{"Old/Localizable.strings"},
		[]string{"New/Localizable.strings"},
		[]string{"App/Localizable.strings"})

	assertFiles(t, Range(base+".."+head, false, Options{Dir: r.dir, Exclude: []string{"Old/**"}}),
		nil,
		[]string{"New/Localizable.strings"},
		[]string{"App/Localizable.strings"})
}

func TestCommit_Root(t *testing.T) {
	r := newTestRepo(t)
	root := r.git("rev-parse", "HEAD")

	cs := Commit(root, "", Options{Dir: r.dir})
	assertFiles(t, cs, nil,
		[]string{"App/Localizable.strings", "Old/Localizable.strings"},
		nil)

	patch, err := cs.Patch(context.Background(), "Old/Localizable.strings")
	require.NoError(t, err)
	assert.Contains(t, patch, "+\"old\" = \"Old\";")
}

func TestGetRepoMeta(t *testing.T) {
	r := newTestRepo(t)

	meta, err := GetRepoMeta(context.Background(), r.dir)
	require.NoError(t, err)
	assert.Equal(t, "main", meta.Branch)
	assert.Len(t, meta.Head, 40)
	assert.NotEmpty(t, meta.Root)
}

func TestGetRepoMeta_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := GetRepoMeta(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestRemoteURL(t *testing.T) {
	r := newTestRepo(t)
	r.git("remote", "add", "origin", "git@github.com:acme/app.git")

	url, err := RemoteURL(context.Background(), r.dir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "git@github.com:acme/app.git", url)

	_, err = RemoteURL(context.Background(), r.dir, "upstream")
	assert.Error(t, err)
}
