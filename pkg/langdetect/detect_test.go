package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/refit/pkg/langdetect"
)

func TestDetectFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		content string
		want    string
	}{
		{path: "main.go", content: "package main\n", want: langdetect.Go},
		{path: "tool.py", content: "print('x')\n", want: langdetect.Python},
		{path: "web/app.js", content: "const a = 1;\n", want: langdetect.JavaScript},
		{path: "README.md", content: "# Title\n", want: langdetect.Markdown},
		{path: "notes.txt", content: "hello\n", want: langdetect.Text},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.DetectFile(tt.path, []byte(tt.content)))
		})
	}
}

func TestSkip(t *testing.T) {
	t.Parallel()

	assert.True(t, langdetect.Skip("vendor/github.com/x/y.go", []byte("package y\n")))
	assert.True(t, langdetect.Skip("api.pb.go", []byte("// Code generated by protoc-gen-go. DO NOT EDIT.\npackage api\n")))
	assert.False(t, langdetect.Skip("pkg/a.go", []byte("package a\n")))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "shebang bash", content: "#!/bin/bash\necho hello", want: "bash"},
		{name: "shebang sh", content: "#!/bin/sh\necho hello", want: "bash"},
		{name: "shebang python", content: "#!/usr/bin/env python3\nprint('hello')", want: "python"},
		{name: "shebang wins over patterns", content: "#!/bin/bash\ndef foo():\n    pass", want: "bash"},
		{name: "go", content: "package main\n\nfunc main() {\n\tfmt.Println(\"hello\")\n}", want: "go"},
		{name: "python", content: "def foo():\n    pass\n\nif __name__ == '__main__':\n    foo()", want: "python"},
		{name: "javascript", content: "const x = () => { return 42; };\nconsole.log(x());", want: "javascript"},
		{name: "json", content: `{"key": "value", "number": 123}`, want: "json"},
		{name: "yaml", content: "key: value\nother: 123\nlist:\n  - item1\n  - item2", want: "yaml"},
		{name: "rust", content: "fn main() {\n    println!(\"Hello, world!\");\n}", want: "rust"},
		{name: "sql", content: "SELECT * FROM users WHERE id = 1;", want: "sql"},
		{name: "html", content: "<!DOCTYPE html>\n<html>\n<head><title>Test</title></head>\n<body></body>\n</html>", want: "html"},
		{name: "dockerfile", content: "FROM golang:1.21\nWORKDIR /app\nCOPY . .\nRUN go build", want: "dockerfile"},
		{name: "plain text", content: "just some text without any code patterns", want: "text"},
		{name: "blank", content: "  \n\t\n", want: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, langdetect.Detect([]byte(tt.content)))
		})
	}
}
