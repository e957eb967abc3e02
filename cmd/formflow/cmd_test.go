package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/persist"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

const feedbackDefinition = `
id: feedback
title: Feedback
steps:
  - id: about
    title: About you
    fields:
      - name: name
        label: Name
        type: text
        required: true
`

type scriptedDriver struct {
	inputs   []string
	defaults []string
	infos    []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.defaults = append(d.defaults, cfg.Default)
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return false, errors.New("unexpected confirm")
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return 0, errors.New("unexpected select")
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, errors.New("unexpected multiselect")
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", errors.New("unexpected textarea")
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

type harness struct {
	dir    string
	config string
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{dir: dir, config: filepath.Join(dir, "formflow.yaml")}
	cfg := "persistence:\n  enabled: true\n  backend: file\n  path: " + filepath.Join(dir, "store") + "\n"
	h.write(t, "formflow.yaml", cfg)
	return h
}

func (h *harness) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func (h *harness) run(driver tui.PromptDriver, args ...string) error {
	h.out.Reset()
	h.errOut.Reset()
	a := newApp(&h.out, &h.errOut)
	a.logger = zap.NewNop()
	a.driver = driver
	root := newRootCmd(a)
	root.SetArgs(append([]string{"--config", h.config}, args...))
	return root.ExecuteContext(context.Background())
}

func TestRunPrintsAnswersAndClearsSavedData(t *testing.T) {
	h := newHarness(t)
	def := h.write(t, "feedback.yaml", feedbackDefinition)

	driver := &scriptedDriver{inputs: []string{"Ada"}}
	if err := h.run(driver, "run", def); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := h.out.String(); got != "{\"name\":\"Ada\"}\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if len(driver.infos) == 0 || driver.infos[0] != "Feedback" {
		t.Fatalf("expected title info, got %v", driver.infos)
	}

	if err := h.run(nil, "data", "show"); err != nil {
		t.Fatalf("data show: %v", err)
	}
	if !strings.Contains(h.errOut.String(), "no saved form data") {
		t.Fatalf("expected saved data to be cleared, stderr %q", h.errOut.String())
	}
}

func TestRunKeepAndDataCommands(t *testing.T) {
	h := newHarness(t)
	def := h.write(t, "feedback.yaml", feedbackDefinition)
	outFile := filepath.Join(h.dir, "answers.txt")

	driver := &scriptedDriver{inputs: []string{"Grace"}}
	if err := h.run(driver, "run", def, "--keep", "--format", "form", "--output", outFile); err != nil {
		t.Fatalf("run: %v", err)
	}
	written, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(written) != "name=Grace" {
		t.Fatalf("unexpected file output %q", written)
	}

	if err := h.run(nil, "data", "show"); err != nil {
		t.Fatalf("data show: %v", err)
	}
	if got := h.out.String(); got != "{\n  \"name\": \"Grace\"\n}\n" {
		t.Fatalf("unexpected saved data %q", got)
	}

	if err := h.run(nil, "data", "clear"); err != nil {
		t.Fatalf("data clear: %v", err)
	}
	if !strings.Contains(h.errOut.String(), "cleared multiStepFormData") {
		t.Fatalf("unexpected clear message %q", h.errOut.String())
	}
	if err := h.run(nil, "data", "show"); err != nil {
		t.Fatalf("data show: %v", err)
	}
	if h.out.Len() != 0 {
		t.Fatalf("expected no data after clear, got %q", h.out.String())
	}
}

func TestRunRestoresSavedAnswers(t *testing.T) {
	h := newHarness(t)
	def := h.write(t, "feedback.yaml", feedbackDefinition)

	kv, err := persist.NewFileKV(nil, filepath.Join(h.dir, "store"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := kv.Put(context.Background(), persist.DefaultKey, []byte(`{"name":"Saved"}`)); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	driver := &scriptedDriver{inputs: []string{"Saved"}}
	if err := h.run(driver, "run", def); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(driver.defaults) != 1 || driver.defaults[0] != "Saved" {
		t.Fatalf("expected saved answer as prompt default, got %v", driver.defaults)
	}

	if err := h.run(nil, "data", "clear", "--key", "other"); err != nil {
		t.Fatalf("data clear: %v", err)
	}
	if !strings.Contains(h.errOut.String(), "cleared other") {
		t.Fatalf("unexpected clear message %q", h.errOut.String())
	}
}

func TestLint(t *testing.T) {
	h := newHarness(t)
	good := h.write(t, "good.yaml", feedbackDefinition)
	bad := h.write(t, "bad.yaml", `
id: broken
steps:
  - id: one
    fields:
      - name: color
        type: select
      - name: color
        type: text
`)

	if err := h.run(nil, "lint", good); err != nil {
		t.Fatalf("lint good: %v", err)
	}
	if got := h.out.String(); got != "1 definition(s) ok\n" {
		t.Fatalf("unexpected lint output %q", got)
	}

	err := h.run(nil, "lint", good, bad)
	if !errors.Is(err, errLintFailed) {
		t.Fatalf("expected errLintFailed, got %v", err)
	}
	want := bad + ": steps[one].fields[color] -> duplicate field name \"color\" (first declared at steps[one].fields[color])\n" +
		bad + ": steps[one].fields[color] -> select field requires options\n"
	if got := h.errOut.String(); got != want {
		t.Fatalf("unexpected lint report:\n%s\nwant:\n%s", got, want)
	}
}

func TestDataRequiresPersistence(t *testing.T) {
	h := newHarness(t)
	h.write(t, "formflow.yaml", "persistence:\n  enabled: false\n")
	if err := h.run(nil, "data", "show"); !errors.Is(err, errPersistenceDisabled) {
		t.Fatalf("expected errPersistenceDisabled, got %v", err)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	h := newHarness(t)
	if err := h.run(nil, "--log-level", "loud", "data", "show"); err == nil {
		t.Fatal("expected invalid log level to fail")
	}
}

func TestServeStopsWhenContextEnds(t *testing.T) {
	h := newHarness(t)
	defs := filepath.Join(h.dir, "forms")
	if err := os.MkdirAll(defs, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(defs, "feedback.yaml"), []byte(feedbackDefinition), 0o600); err != nil {
		t.Fatalf("write definition: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newApp(&h.out, &h.errOut)
	a.logger = zap.NewNop()
	root := newRootCmd(a)
	root.SetArgs([]string{"--config", h.config, "serve", defs, "--addr", "127.0.0.1:0"})
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("serve: %v", err)
	}
}

func TestServeRequiresDefinitions(t *testing.T) {
	h := newHarness(t)
	empty := t.TempDir()
	err := h.run(nil, "serve", empty)
	if err == nil || !strings.Contains(err.Error(), "no form definitions") {
		t.Fatalf("expected missing definitions error, got %v", err)
	}
}
