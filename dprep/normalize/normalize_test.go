package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"
)

func TestSentence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"latin", "Hello, World!! 123", "hello, world 123"},
		{"empty", "", ""},
		{"only spaces", "   \t\n ", ""},
		{"hangul kept", "안녕하세요 반가워요", "안녕하세요 반가워요"},
		{"jamo run removed", "진짜ㅋㅋㅋ 웃기다", "진짜 웃기다"},
		{"jamo with slash removed", "ㅠ/ㅠ 슬퍼", "슬퍼"},
		{"single jamo blanked", "아 ㅋ 그래", "아 그래"},
		{"allowed punctuation", "#person1#: [sep] (ok) a-b @c", "#person1# [sep] (ok) a-b @c"},
		{"disallowed punctuation", "wow... really?! \"yes\"", "wow really yes"},
		{"newlines and tabs", "a\tb\nc", "a b c"},
		{"emoji", "좋아요😀👍", "좋아요"},
		{"uppercase hangul mix", "KakaoTalk 메시지", "kakaotalk 메시지"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sentence(tt.in))
		})
	}
}

func TestSentenceIdempotent(t *testing.T) {
	for _, s := range []string{"Hello, World!! 123", "진짜ㅋㅋㅋ 웃기다 (ㅎㅎ)", "#a# [sep] b"} {
		once := Sentence(s)
		assert.Equal(t, once, Sentence(once))
	}
}

func TestNormalizerComposeNFC(t *testing.T) {
	decomposed := norm.NFD.String("한국어")

	plain := New(Options{})
	assert.NotEqual(t, "한국어", plain.Normalize(decomposed))

	composing := New(Options{ComposeNFC: true})
	assert.Equal(t, "한국어", composing.Normalize(decomposed))
}

func TestNormalizeAll(t *testing.T) {
	n := New(Options{})
	assert.Equal(t, []string{"a b", ""}, n.NormalizeAll([]string{"A  B", "!!"}))
	assert.Empty(t, n.NormalizeAll(nil))
}
