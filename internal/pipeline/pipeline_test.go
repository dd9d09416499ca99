package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"composelint/internal/analysis"
	"composelint/internal/config"
	"composelint/internal/git"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const badgeSrc = `package com.example.ui

import androidx.compose.runtime.Composable
import androidx.compose.ui.Modifier

@Composable
fun Badge(count: Int) {
    Text(count.toString())
}
`

const toolbarSrc = `package com.example.ui

@Composable
fun Toolbar(modifier: Modifier = Modifier) {
    Badge(3)
}

@Composable
fun Header() {
    Toolbar()
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestPipeline(t *testing.T) (*Pipeline, string) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ui", "Badge.kt"), badgeSrc)
	writeFile(t, filepath.Join(root, "ui", "Toolbar.kt"), toolbarSrc)

	cfg := config.Default()
	cfg.Storage.DB = filepath.Join(t.TempDir(), "findings.db")
	cfg.Analysis.Workers = 2

	p, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p, root
}

func symbols(findings []analysis.Finding) []string {
	var out []string
	for _, f := range findings {
		out = append(out, f.Symbol)
	}
	return out
}

func TestPipeline_Scan(t *testing.T) {
	p, root := newTestPipeline(t)
	ctx := context.Background()

	result, err := p.Scan(ctx, root)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	assert.Equal(t, []string{"Badge", "Header", "Toolbar"}, result.Emitters)
	// Header only emits through Toolbar, a project composable.
	assert.Equal(t, []string{"Badge", "Header"}, symbols(result.Findings))

	stored, err := p.Store().LoadFindings(ctx, analysis.RuleModifierMissing)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	emitters, err := p.Store().LoadEmitters(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Emitters, emitters)
}

func TestPipeline_Sync(t *testing.T) {
	p, root := newTestPipeline(t)
	ctx := context.Background()

	_, err := p.Scan(ctx, root)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "ui", "Badge.kt"),
		`package com.example.ui

import androidx.compose.runtime.Composable
import androidx.compose.ui.Modifier

@Composable
fun Badge(count: Int, modifier: Modifier = Modifier) {
    Text(count.toString())
}
`)

	result, err := p.Sync(ctx, root, []git.ChangedFile{
		{Path: "ui/Badge.kt", ChangedLines: []int{7}},
		{Path: "README.md"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Badge"}, symbols(result.Impact.Touched))
	assert.Equal(t, []string{"Header"}, symbols(result.Impact.Untouched))
	assert.Equal(t, []string{filepath.Join(root, "ui", "Badge.kt")}, result.Updated)
	assert.Empty(t, result.Findings)
	assert.Empty(t, result.Rechecked, "emitter set is unchanged")

	stored, err := p.Store().LoadFindings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Header"}, symbols(stored))

	require.NoError(t, os.Remove(filepath.Join(root, "ui", "Toolbar.kt")))
	result, err = p.Sync(ctx, root, []git.ChangedFile{{Path: "ui/Toolbar.kt", Deleted: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "ui", "Toolbar.kt")}, result.Deleted)

	stored, err = p.Store().LoadFindings(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPipeline_SyncRechecksCallers(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ui", "Badge.kt"), `package com.example.ui

@Composable
fun Badge(count: Int) {
    println(count)
}
`)
	writeFile(t, filepath.Join(root, "ui", "Header.kt"), `package com.example.ui

@Composable
fun Header() {
    Badge(1)
}
`)
	cfg := config.Default()
	cfg.Storage.DB = filepath.Join(t.TempDir(), "findings.db")
	p, err := New(cfg, nil)
	require.NoError(t, err)
	defer p.Close()
	ctx := context.Background()

	scan, err := p.Scan(ctx, root)
	require.NoError(t, err)
	assert.Empty(t, scan.Emitters)
	assert.Empty(t, scan.Findings)

	writeFile(t, filepath.Join(root, "ui", "Badge.kt"), `package com.example.ui

@Composable
fun Badge(count: Int) {
    Text(count.toString())
}
`)
	result, err := p.Sync(ctx, root, []git.ChangedFile{{Path: "ui/Badge.kt", ChangedLines: []int{5}}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "ui", "Header.kt")}, result.Rechecked)
	assert.ElementsMatch(t, []string{"Badge", "Header"}, symbols(result.Findings))

	emitters, err := p.Store().LoadEmitters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Badge", "Header"}, emitters)
}

func TestPipeline_SyncWithoutKotlinChanges(t *testing.T) {
	p, root := newTestPipeline(t)

	result, err := p.Sync(context.Background(), root, []git.ChangedFile{{Path: "build.gradle"}})
	require.NoError(t, err)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Impact.Touched)
}
