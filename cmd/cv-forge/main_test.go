package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cv-forge/internal/config"
	"cv-forge/internal/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCV(t *testing.T, dir, name string, cv model.CV) string {
	t.Helper()
	b, err := json.Marshal(cv)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestRunReconcile(t *testing.T) {
	dir := t.TempDir()
	orig := model.DefaultCV()
	cand := orig.Clone()
	cand.PersonalInfo.Phone = "000"
	cand.Experience[0].Description = "Rewritten"
	cand.Experience = append(cand.Experience, model.ExperienceEntry{ID: "exp2", Company: "Invented"})

	opts := reconcileOptions{
		original:  writeCV(t, dir, "a.json", orig),
		candidate: writeCV(t, dir, "b.json", cand),
	}

	var stdout, stderr bytes.Buffer
	require.NoError(t, runReconcile(opts, &stdout, &stderr))

	var got model.CV
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, orig.PersonalInfo.Phone, got.PersonalInfo.Phone)
	assert.Equal(t, "Rewritten", got.Experience[0].Description)
	assert.Len(t, got.Experience, 2)
	assert.Equal(t, "modified personalInfo.phone\n", stderr.String())

	opts.strict = true
	stdout.Reset()
	stderr.Reset()
	require.NoError(t, runReconcile(opts, &stdout, &stderr))
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Len(t, got.Experience, 1)
}

func TestRunReconcile_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"summary":"x"}`), 0o600))

	err := runReconcile(reconcileOptions{original: bad, candidate: bad}, &bytes.Buffer{}, &bytes.Buffer{})
	var se *model.SchemaError
	assert.ErrorAs(t, err, &se)

	err = runReconcile(reconcileOptions{original: filepath.Join(dir, "missing.json")}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Error(t, err)
}

type pdfStub struct{}

func (pdfStub) RenderHTMLToPDF(context.Context, string) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	in := writeCV(t, dir, "cv.json", model.DefaultCV())

	htmlOut := filepath.Join(dir, "cv.html")
	require.NoError(t, renderFile(context.Background(), pdfStub{}, in, htmlOut, true))
	html, err := os.ReadFile(htmlOut)
	require.NoError(t, err)
	assert.Contains(t, string(html), "YOUR NAME")

	pdfOut := filepath.Join(dir, "cv.pdf")
	require.NoError(t, renderFile(context.Background(), pdfStub{}, in, pdfOut, false))
	pdf, err := os.ReadFile(pdfOut)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(pdf))
}

func TestNewStoreAndGenerator(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("store.driver", config.DriverSQLite)
	v.Set("store.sqlite.path", filepath.Join(t.TempDir(), "cvs.db"))
	cfg, err := config.Load(v)
	require.NoError(t, err)

	store, closer, err := newStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, closer.Close())

	gen, err := newGenerator(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, gen)

	cfg.Store.Driver = "redis"
	_, _, err = newStore(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
