package viz

import (
	"context"
	"strings"
	"testing"

	"github.com/matsen/ringmap/internal/surface"
	"github.com/matsen/ringmap/internal/taxonomy"
)

func TestGenerateHTML(t *testing.T) {
	s := demoSurface(t)

	out, err := GenerateHTML(s, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Module taxonomy</title>",
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`id="point-shadow"`,
		`"highlights":`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateHTML() missing %q", want)
		}
	}
	if strings.Contains(out, "active-target") {
		t.Error("GenerateHTML() marked a target with nothing selected")
	}

	// html/template pads numbers in script context.
	compact := strings.ReplaceAll(out, " ", "")
	for _, want := range []string{"constminScale=0.5;", "constmaxScale=4;", "k:1}"} {
		if !strings.Contains(compact, want) {
			t.Errorf("GenerateHTML() script missing %q", want)
		}
	}
}

func TestGenerateHTML_WithSelection(t *testing.T) {
	s := demoSurface(t)
	if err := s.Select("model3"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	out, err := GenerateHTML(s, HTMLOptions{Title: "Selected"})
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if !strings.Contains(out, "active-target") {
		t.Error("GenerateHTML() should render the selection into the SVG")
	}
	if !strings.Contains(out, `"selected":`) {
		t.Error("GenerateHTML() should pass the selection to the script")
	}
}

func TestGenerateHTML_EscapesTitle(t *testing.T) {
	s := demoSurface(t)
	out, err := GenerateHTML(s, HTMLOptions{Title: "<b>x</b>"})
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if strings.Contains(out, "<title><b>x</b>") {
		t.Error("title was not escaped")
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	s, err := surface.Mount(context.Background(), nil, &taxonomy.Dataset{}, surface.Options{Width: 600, Height: 600})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}

	out, err := GenerateHTML(s, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if !strings.Contains(out, "No modules") {
		t.Error("empty dataset should render the empty state")
	}
	if strings.Contains(out, "<svg") {
		t.Error("empty state should not embed an svg")
	}
}

func TestGenerateHTML_Nil(t *testing.T) {
	if _, err := GenerateHTML(nil, DefaultOptions()); err == nil {
		t.Error("GenerateHTML(nil) expected error")
	}
}
