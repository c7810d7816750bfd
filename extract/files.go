package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ResolveFiles expands glob patterns to concrete files. Supports both
// single-level wildcards (*) and recursive wildcards (**). Plain paths pass
// through after a stat check. Returns only files, not directories, each at
// most once, in pattern order.
func ResolveFiles(patterns []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		paths, err := resolvePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	return resolved, nil
}

// resolvePattern expands a single glob pattern to files.
func resolvePattern(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("path is a directory, not a file: %s", pattern)
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue // Skip paths that can't be stat'd
		}
		if !info.IsDir() {
			files = append(files, match)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// FromFile extracts a document from a local file, dispatching on extension.
// HTML files go through article extraction; everything else is treated as
// plain text. PDF input is rejected: conversion to text happens upstream.
func FromFile(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf":
		return Document{}, fmt.Errorf("PDF input is not supported, convert %s to text first", path)
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return Document{}, fmt.Errorf("opening %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()

		doc, err := FromHTML(f, nil)
		if err != nil {
			return Document{}, fmt.Errorf("extracting %s: %w", path, err)
		}
		if doc.Title == "" {
			doc.Title = titleFromPath(path)
		}
		return doc, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return Document{}, fmt.Errorf("reading %s: %w", path, err)
		}
		return Document{
			Title: titleFromPath(path),
			Text:  NormalizeText(string(data)),
		}, nil
	}
}

// titleFromPath derives a display title from the base filename without its
// extension.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
