package security

import (
	"strings"
	"testing"
)

func TestTextSanitizer_Clean(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "プレーンテキストはそのまま", input: "hello there", want: "hello there"},
		{name: "空文字列", input: "", want: ""},
		{name: "前後の空白を除去", input: "  hi  ", want: "hi"},
		{name: "タグを除去", input: "<b>Hi</b> there", want: "Hi there"},
		{name: "scriptは中身ごと除去", input: "<script>alert(1)</script>hello", want: "hello"},
		{name: "イベント属性付き要素", input: `<img src=x onerror="alert(1)">ok`, want: "ok"},
		{name: "記号は実体参照にならない", input: "A & B < C", want: "A & B < C"},
		{name: "引用符を保持", input: `Course "Intro"`, want: `Course "Intro"`},
		{name: "日本語", input: "<p>課題について</p>", want: "課題について"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_Clean_Idempotent(t *testing.T) {
	s := NewTextSanitizer()
	inputs := []string{"<i>x</i> & y", "plain", "<a href='javascript:alert(1)'>link</a>"}

	for _, in := range inputs {
		once := s.Clean(in)
		if twice := s.Clean(once); twice != once {
			t.Errorf("Clean(Clean(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestTextSanitizer_Filename(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "通常のファイル名", input: "notes.pdf", want: "notes.pdf"},
		{name: "Unixパスを除去", input: "../../etc/passwd", want: "passwd"},
		{name: "Windowsパスを除去", input: `C:\Users\me\report.docx`, want: "report.docx"},
		{name: "タグを除去", input: "<b>slides</b>.pptx", want: "slides.pptx"},
		{name: "パス内のタグを除去", input: `uploads\<i>2024</i>\<b>notes</b>.pdf`, want: "notes.pdf"},
		{name: "制御文字を除去", input: "a\x00b\nc.txt", want: "abc.txt"},
		{name: "空の場合", input: "", want: "file"},
		{name: "ディレクトリのみ", input: "dir/", want: "dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Filename(tt.input); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_Filename_Truncates(t *testing.T) {
	s := NewTextSanitizer()
	got := s.Filename(strings.Repeat("あ", MaxFilenameLength+10))
	if n := len([]rune(got)); n != MaxFilenameLength {
		t.Errorf("rune count = %d, want %d", n, MaxFilenameLength)
	}
}
