package table

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want rune
	}{
		{name: "empty", text: "", want: ','},
		{name: "no candidate", text: "question\nwhat?", want: ','},
		{name: "comma", text: "a,b,c\n1,2,3", want: ','},
		{name: "semicolon", text: "a;b;c\n1;2;3", want: ';'},
		{name: "tab", text: "a\tb\tc", want: '\t'},
		{name: "quoted commas ignored", text: "\"a,b\";\"c,d\"\n1;2", want: ';'},
		{name: "tie goes to comma", text: "a;b,c", want: ','},
		{name: "tie goes to semicolon over tab", text: "a;b\tc", want: ';'},
		{name: "only first line counts", text: "a;b\n1,2,3,4,5", want: ';'},
		{name: "CR line endings", text: "a;b;c\r1,2,3,4,5", want: ';'},
		{name: "CRLF line endings", text: "a\tb\r\n1,2,3", want: '\t'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.text); got != tt.want {
				t.Errorf("DetectDelimiter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRows(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		delim rune
		want  [][]string
	}{
		{name: "blank input", text: "  \n\t\n", delim: ',', want: nil},
		{name: "escaped quotes", text: `"Hello ""World""",5`, delim: ',', want: [][]string{{`Hello "World"`, "5"}}},
		{name: "cells are trimmed", text: " a ,  b\n 1,2 ", delim: ',', want: [][]string{{"a", "b"}, {"1", "2"}}},
		{name: "blank lines skipped", text: "a,b\n\n1,2\n\n", delim: ',', want: [][]string{{"a", "b"}, {"1", "2"}}},
		{name: "CRLF and CR", text: "a;b\r\n1;2\r3;4", delim: ';', want: [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}},
		{name: "quoted delimiter and newline", text: "q,a\n\"one, two\",\"line1\nline2\"", delim: ',', want: [][]string{{"q", "a"}, {"one, two", "line1\nline2"}}},
		{name: "trailing empty cells kept", text: "a,b,c\n1,,", delim: ',', want: [][]string{{"a", "b", "c"}, {"1", "", ""}}},
		{name: "row of blank cells kept", text: "a,b\n,\n1,2", delim: ',', want: [][]string{{"a", "b"}, {"", ""}, {"1", "2"}}},
		{name: "unterminated quote flushes", text: "a,\"b\nc", delim: ',', want: [][]string{{"a", "b\nc"}}},
		{name: "multibyte", text: "référence\tintitulé\nR1\tQu'est-ce ?", delim: '\t', want: [][]string{{"référence", "intitulé"}, {"R1", "Qu'est-ce ?"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRows(tt.text, tt.delim))
		})
	}
}

func TestBuildRecords(t *testing.T) {
	t.Run("synthetic labels", func(t *testing.T) {
		tbl, err := BuildRecords([][]string{{"", "", "Name"}, {"1", "2", "Ada"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"col_1", "col_2", "Name"}, tbl.Headers)
		assert.Equal(t, []Record{{"col_1": "1", "col_2": "2", "Name": "Ada"}}, tbl.Records)
	})

	t.Run("blank header row", func(t *testing.T) {
		_, err := BuildRecords([][]string{{"", " ", ""}, {"1", "2", "3"}})
		var hErr *HeaderInferenceError
		require.True(t, errors.As(err, &hErr), "error = %v", err)
		assert.Equal(t, 3, hErr.Columns)
	})

	t.Run("missing cells default to empty and blank rows are dropped", func(t *testing.T) {
		tbl, err := BuildRecords([][]string{{"a", "b", "c"}, {"1"}, {"", " "}, {"2", "3", "4", "extra"}})
		require.NoError(t, err)
		assert.Equal(t, []Record{
			{"a": "1", "b": "", "c": ""},
			{"a": "2", "b": "3", "c": "4"},
		}, tbl.Records)
	})

	t.Run("no rows", func(t *testing.T) {
		tbl, err := BuildRecords(nil)
		require.NoError(t, err)
		assert.True(t, tbl.IsEmpty())
		assert.Empty(t, tbl.Headers)
	})
}

func TestParse(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		tbl, err := Parse("reference;question;A;B\n")
		require.NoError(t, err)
		assert.Equal(t, []string{"reference", "question", "A", "B"}, tbl.Headers)
		assert.True(t, tbl.IsEmpty())
		assert.Equal(t, ';', tbl.Delimiter)
	})

	t.Run("blank", func(t *testing.T) {
		tbl, err := Parse(" \r\n ")
		require.NoError(t, err)
		assert.Empty(t, tbl.Headers)
		assert.True(t, tbl.IsEmpty())
	})

	t.Run("blank header", func(t *testing.T) {
		_, err := Parse(";;\n1;2;3")
		var hErr *HeaderInferenceError
		assert.True(t, errors.As(err, &hErr))
	})
}

func TestParseRoundTrip(t *testing.T) {
	rows := [][]string{
		{"reference", "question", "A", "B"},
		{"Q1", `Say "hello", then wave`, "yes; no", "tab\there"},
		{"Q2", "multi\nline", "", "x"},
		{"Q3", "plain", "a", "b"},
	}
	for _, delim := range Delimiters {
		t.Run(DelimiterName(delim), func(t *testing.T) {
			var buf bytes.Buffer
			w := csv.NewWriter(&buf)
			w.Comma = delim
			require.NoError(t, w.WriteAll(rows))

			assert.Equal(t, rows, ParseRows(buf.String(), delim))

			want, err := BuildRecords(rows)
			require.NoError(t, err)
			got, err := Parse(buf.String())
			require.NoError(t, err)
			assert.Equal(t, delim, got.Delimiter)
			assert.Equal(t, want.Headers, got.Headers)
			assert.Equal(t, want.Records, got.Records)
		})
	}
}

func TestDecode(t *testing.T) {
	defer func(orig func([]byte) string) { detectCharset = orig }(detectCharset)

	t.Run("utf-8 with BOM", func(t *testing.T) {
		got, err := Decode([]byte("\xef\xbb\xbfréférence,titre"))
		require.NoError(t, err)
		assert.Equal(t, "référence,titre", got)
	})

	t.Run("binary", func(t *testing.T) {
		_, err := Decode([]byte("a,b\x00c"))
		var dErr *DecodeError
		assert.True(t, errors.As(err, &dErr))
	})

	t.Run("windows-1252", func(t *testing.T) {
		detectCharset = func([]byte) string { return "windows-1252" }
		got, err := Decode([]byte("r\xe9f\xe9rence;intitul\xe9"))
		require.NoError(t, err)
		assert.Equal(t, "référence;intitulé", got)
	})

	t.Run("unsupported charset", func(t *testing.T) {
		detectCharset = func([]byte) string { return "shift_jis" }
		_, err := Decode([]byte{0x82, 0xa0, 0x82})
		var dErr *DecodeError
		require.True(t, errors.As(err, &dErr))
		assert.Equal(t, "shift_jis", dErr.Charset)
		assert.Contains(t, dErr.Error(), "shift_jis")
	})
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		tbl, err := Import(ctx, "cards.csv", strings.NewReader("ref,title\nR1,One\nR2,Two\n"), 0)
		require.NoError(t, err)
		assert.Len(t, tbl.Records, 2)
	})

	t.Run("read failure", func(t *testing.T) {
		_, err := Import(ctx, "cards.csv", iotest.ErrReader(errors.New("disk gone")), 0)
		var rErr *FileReadError
		require.True(t, errors.As(err, &rErr))
		assert.Equal(t, "cards.csv", rErr.Name)
		assert.EqualError(t, errors.Unwrap(err), "disk gone")
	})

	t.Run("too large", func(t *testing.T) {
		_, err := Import(ctx, "big.csv", strings.NewReader("ref,title\nR1,One\n"), 8)
		assert.True(t, errors.Is(err, ErrFileTooLarge))
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Import(cctx, "cards.csv", strings.NewReader("ref,title\n"), 0)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("decode failure carries the file name", func(t *testing.T) {
		_, err := Import(ctx, "bin.csv", bytes.NewReader([]byte{0, 1, 2}), 0)
		var dErr *DecodeError
		require.True(t, errors.As(err, &dErr))
		assert.Equal(t, "bin.csv", dErr.Name)
	})
}
