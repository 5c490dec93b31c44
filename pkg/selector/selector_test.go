package selector

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers prompts from fixed queues and records what it was shown.
type scriptedPrompter struct {
	selections []int
	confirms   []bool
	err        error

	shownOptions [][]string
	shownTitles  []string
}

func (p *scriptedPrompter) Select(_ context.Context, title string, options []string) (int, error) {
	p.shownTitles = append(p.shownTitles, title)
	p.shownOptions = append(p.shownOptions, options)
	if p.err != nil {
		return -1, p.err
	}
	if len(p.selections) == 0 {
		return -1, ErrSelectionAborted
	}
	idx := p.selections[0]
	p.selections = p.selections[1:]
	return idx, nil
}

func (p *scriptedPrompter) Confirm(_ context.Context, title string) (bool, error) {
	p.shownTitles = append(p.shownTitles, title)
	if p.err != nil {
		return false, p.err
	}
	if len(p.confirms) == 0 {
		return false, ErrSelectionAborted
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}

// newTree builds SystemA (leaf) and SystemB with reqres and test_endpoint.
func newTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	store := storage.NewStore(root)

	_, err := store.Save("SystemA", storage.MethodGet, &storage.RequestDescriptor{URL: "http://a"})
	require.NoError(t, err)
	_, err = store.Save("SystemB/reqres", storage.MethodPost, &storage.RequestDescriptor{URL: "https://reqres.in/api/users"})
	require.NoError(t, err)
	require.NoError(t, store.CreateNamespace("SystemB/test_endpoint"))
	return root
}

func TestSelector_DescendsToLeaf(t *testing.T) {
	root := newTree(t)
	prompter := &scriptedPrompter{selections: []int{1, 0}}

	ns, err := New(storage.NewCodec(root), prompter).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SystemB/reqres", ns)

	require.Len(t, prompter.shownOptions, 2)
	assert.Equal(t, []string{"SystemA", "SystemB"}, prompter.shownOptions[0])
	assert.Equal(t, []string{"reqres", "test_endpoint"}, prompter.shownOptions[1])
}

func TestSelector_LeafAtFirstLevel(t *testing.T) {
	root := newTree(t)
	prompter := &scriptedPrompter{selections: []int{0}}

	ns, err := New(storage.NewCodec(root), prompter).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SystemA", ns)
}

func TestSelector_InvalidInputReprompts(t *testing.T) {
	root := newTree(t)
	prompter := &scriptedPrompter{selections: []int{7, -1, 1, 5, 1}}

	ns, err := New(storage.NewCodec(root), prompter).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SystemB/test_endpoint", ns)
	assert.Len(t, prompter.shownOptions, 5)
}

func TestSelector_MaxRetries(t *testing.T) {
	root := newTree(t)
	prompter := &scriptedPrompter{selections: []int{9, 9, 9, 0}}

	sel := New(storage.NewCodec(root), prompter)
	sel.MaxRetries = 3

	_, err := sel.Run(context.Background())
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Equal(t, []int{0}, prompter.selections, "the loop must stop after three invalid answers")
}

func TestSelector_StopWhenDecliningToDescend(t *testing.T) {
	root := newTree(t)
	store := storage.NewStore(root)
	_, err := store.Save("SystemB", storage.MethodGet, &storage.RequestDescriptor{URL: "http://b"})
	require.NoError(t, err)

	t.Run("decline stops at current namespace", func(t *testing.T) {
		prompter := &scriptedPrompter{selections: []int{1}, confirms: []bool{false}}
		ns, err := New(storage.NewCodec(root), prompter).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "SystemB", ns)
	})

	t.Run("accept continues descending", func(t *testing.T) {
		prompter := &scriptedPrompter{selections: []int{1, 0}, confirms: []bool{true}}
		ns, err := New(storage.NewCodec(root), prompter).Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "SystemB/reqres", ns)
	})
}

func TestSelector_Abort(t *testing.T) {
	root := newTree(t)

	t.Run("prompter abort", func(t *testing.T) {
		prompter := &scriptedPrompter{err: ErrSelectionAborted}
		_, err := New(storage.NewCodec(root), prompter).Run(context.Background())
		assert.ErrorIs(t, err, ErrSelectionAborted)
	})

	t.Run("context canceled by interrupt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		prompter := &scriptedPrompter{selections: []int{0}}
		_, err := New(storage.NewCodec(root), prompter).Run(ctx)
		assert.ErrorIs(t, err, ErrSelectionAborted)
		assert.Empty(t, prompter.shownOptions)
	})

	t.Run("prompter reports context cancellation", func(t *testing.T) {
		prompter := &scriptedPrompter{err: context.Canceled}
		_, err := New(storage.NewCodec(root), prompter).Run(context.Background())
		assert.ErrorIs(t, err, ErrSelectionAborted)
	})
}

func TestSelector_EmptyAndMissingRoot(t *testing.T) {
	t.Run("empty root", func(t *testing.T) {
		_, err := New(storage.NewCodec(t.TempDir()), &scriptedPrompter{}).Run(context.Background())
		assert.ErrorIs(t, err, storage.ErrNamespaceNotFound)
	})

	t.Run("missing root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "absent")
		_, err := New(storage.NewCodec(root), &scriptedPrompter{}).Run(context.Background())
		assert.ErrorIs(t, err, storage.ErrNamespaceNotFound)
	})

	t.Run("files only at root", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "GET.json"), []byte("{}"), 0644))
		_, err := New(storage.NewCodec(root), &scriptedPrompter{}).Run(context.Background())
		assert.ErrorIs(t, err, storage.ErrNamespaceNotFound)
	})
}

func TestSelector_HidesDirectoriesThatAreNotNamespaces(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a path separator on windows")
	}
	root := newTree(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, `bad\name`), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "SystemA", `also\bad`), 0755))

	prompter := &scriptedPrompter{selections: []int{0}}
	ns, err := New(storage.NewCodec(root), prompter).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SystemA", ns)
	require.Len(t, prompter.shownOptions, 1)
	assert.Equal(t, []string{"SystemA", "SystemB"}, prompter.shownOptions[0])
}
