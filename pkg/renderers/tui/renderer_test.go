package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-studyform/pkg/model"
	"github.com/goliatone/go-studyform/pkg/render"
	"github.com/goliatone/go-studyform/pkg/sticky"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	prompts      []string
	defaults     []string
	validators   []func(string) error
	selectDefs   []int
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	s.defaults = append(s.defaults, cfg.Default)
	s.validators = append(s.validators, cfg.Validate)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.prompts = append(s.prompts, cfg.Message)
	s.selectDefs = append(s.selectDefs, cfg.DefaultIndex)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func vitals() *model.FormSchema {
	return &model.FormSchema{Fields: []model.Field{
		{Name: "weight", Kind: model.FieldKindNumber, Label: "Weight", Required: true},
		{Name: "arm", Kind: model.FieldKindSelect, Label: "Arm", Options: []string{"left", "right"}},
		{Name: "notes", Kind: model.FieldKindText},
	}}
}

func decode(t *testing.T, out []byte) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return got
}

func TestRenderCollectsValues(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"72.5", "fasted"},
		selectIdx: []int{2},
		confirm:   []bool{true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), vitals(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := map[string]any{"weight": 72.5, "arm": "right", "notes": "fasted"}
	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Weight *", "Arm", "notes"}, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderRepromptsOnlyFailingFields(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "", "0"},
		selectIdx: []int{0},
		confirm:   []bool{true, true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), vitals(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"Weight is required"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Weight *", "Arm", "notes", "Weight *"}, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	got := decode(t, out)
	if got["weight"] != float64(0) || got["arm"] != "" {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestRenderRejectsNonNumericInput(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"heavy", "80", ""},
		selectIdx: []int{1},
		confirm:   []bool{true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(context.Background(), vitals(), render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(driver.infoMessages) != 1 || !strings.Contains(driver.infoMessages[0], "not a number") {
		t.Fatalf("expected number warning, got %v", driver.infoMessages)
	}
}

func TestRenderDeclinedSaveCancels(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"70", ""},
		selectIdx: []int{0},
		confirm:   []bool{false},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	_, err = r.Render(context.Background(), vitals(), render.RenderOptions{})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestRenderUsesStickyDefaults(t *testing.T) {
	ctx := context.Background()
	store := sticky.NewMemory()

	first := &stubDriver{inputs: []string{"70", "baseline"}, selectIdx: []int{1}, confirm: []bool{true}}
	r, err := New(WithPromptDriver(first), WithStickyStore(store, "vitals"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(ctx, vitals(), render.RenderOptions{}); err != nil {
		t.Fatalf("first render: %v", err)
	}

	second := &stubDriver{inputs: []string{"71", "baseline"}, selectIdx: []int{1}, confirm: []bool{true}}
	r, err = New(WithPromptDriver(second), WithStickyStore(store, "vitals"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Render(ctx, vitals(), render.RenderOptions{Values: model.Values{"notes": "week 2"}}); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if diff := cmp.Diff([]string{"70", "week 2"}, second.defaults); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	got, ok, err := store.Get(ctx, "vitals", "weight")
	if err != nil || !ok || got != "71" {
		t.Fatalf("expected remembered weight 71, got %q %v %v", got, ok, err)
	}
}

func TestRenderPrettyOutput(t *testing.T) {
	driver := &stubDriver{inputs: []string{"70", ""}, selectIdx: []int{0}, confirm: []bool{true}}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), vitals(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got, want := string(out), "Weight: 70\nArm: -\nnotes: -\n"; got != want {
		t.Fatalf("pretty output mismatch\nwant %q\n got %q", want, got)
	}
	if r.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{}), WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestRenderDatePromptValidatesInline(t *testing.T) {
	schema := &model.FormSchema{Fields: []model.Field{
		{Name: "collected_on", Kind: model.FieldKindDate, Label: "Collected", Required: true},
	}}
	driver := &stubDriver{
		inputs:  []string{"15/01/2024", "2024-01-15"},
		confirm: []bool{true},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := r.Render(context.Background(), schema, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff([]string{"Invalid collected_on: expected YYYY-MM-DD"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	validate := driver.validators[0]
	if validate == nil || validate("2024-13-40") == nil || validate("  ") != nil {
		t.Fatalf("date prompt should carry an inline validator accepting blanks")
	}
	if got := decode(t, out); got["collected_on"] != "2024-01-15" {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestRenderSelectOptionNamedLikeNoSelection(t *testing.T) {
	schema := &model.FormSchema{Fields: []model.Field{
		{Name: "choice", Kind: model.FieldKindSelect, Label: "Choice", Required: true, Options: []string{noneOption, "Other"}},
	}}
	driver := &stubDriver{selectIdx: []int{1}, confirm: []bool{true}}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), schema, render.RenderOptions{Values: model.Values{"choice": noneOption}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"choice": noneOption}, decode(t, out)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, driver.selectDefs); diff != "" {
		t.Fatalf("default index mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectPromptDefaultsByIndex(t *testing.T) {
	prompt := selectPrompt(SelectConfig{Message: "Choice", Options: []string{noneOption, noneOption}, DefaultIndex: 1})
	if prompt.Default != 1 {
		t.Fatalf("expected default index 1, got %#v", prompt.Default)
	}
	if prompt := selectPrompt(SelectConfig{Options: []string{"a"}, DefaultIndex: 3}); prompt.Default != nil {
		t.Fatalf("out of range default should be unset, got %#v", prompt.Default)
	}
}
