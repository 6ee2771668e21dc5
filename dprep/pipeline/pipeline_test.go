package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/dialogue"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/normalize"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/tokenizer"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ids: <s>=0 <pad>=1 </s>=2 <unk>=3 <mask>=4 안녕=5 [sep]=6 반가워=7 인사=8 한다=9
const testVocab = "<s>\n<pad>\n</s>\n<unk>\n<mask>\n안녕\n[sep]\n반가워\n인사\n한다\n"

func newTokenizer(t *testing.T) tokenizer.Tokenizer {
	t.Helper()
	tok, err := tokenizer.NewVocab(strings.NewReader(testVocab), tokenizer.Config{
		PadToken: "<pad>", MaskToken: "<mask>", EOSToken: "</s>", UnkToken: "<unk>",
	})
	require.NoError(t, err)
	return tok
}

func newBuilder(t *testing.T, mode Mode, maxLen int, rate float64) *Builder {
	t.Helper()
	b, err := NewBuilder(newTokenizer(t), normalize.New(normalize.Options{}), BuildOptions{
		Mode:         mode,
		MaxLen:       maxLen,
		IgnoreIndex:  -100,
		MaskingRate:  rate,
		DecoderStart: "<s>",
	})
	require.NoError(t, err)
	return b
}

func example(id string) dialogue.Example {
	return dialogue.Example{
		ID:         id,
		Topic:      "인사",
		Text:       "안녕 [sep] 반가워",
		Summary:    "인사 한다",
		HasSummary: true,
		Source:     "test.json",
	}
}

func TestBuildSummarization(t *testing.T) {
	b := newBuilder(t, ModeSummarization, 6, 0)

	f, err := b.Build(example("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, "a", f.ID)
	assert.Equal(t, []int{5, 6, 7, 1, 1, 1}, f.InputIDs)
	assert.Equal(t, []int{1, 1, 1, 0, 0, 0}, f.AttentionMask)
	assert.Equal(t, []int{0, 8, 9, 2, 1, 1}, f.DecoderInputIDs)
	assert.Equal(t, []int{1, 1, 1, 1, 0, 0}, f.DecoderAttentionMask)
	assert.Equal(t, []int{8, 9, 2, -100, -100, -100}, f.Labels)
}

func TestBuildSummarizationNormalizesText(t *testing.T) {
	b := newBuilder(t, ModeSummarization, 4, 0)
	ex := example("a")
	ex.Text = "  안녕!!   [SEP] 반가워ㅋㅋ "

	f, err := b.Build(ex, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7, 1}, f.InputIDs)
}

func TestBuildSummarizationTruncates(t *testing.T) {
	b := newBuilder(t, ModeSummarization, 2, 0)
	f, err := b.Build(example("a"), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, f.InputIDs)
	assert.Equal(t, []int{0, 8}, f.DecoderInputIDs)
	assert.Equal(t, []int{8, 9}, f.Labels)
}

func TestBuildSummarizationMissingSummary(t *testing.T) {
	b := newBuilder(t, ModeSummarization, 6, 0)
	ex := example("a")
	ex.HasSummary = false

	_, err := b.Build(ex, nil)
	assert.ErrorIs(t, err, common.ErrMalformedRecord)
}

func TestBuildDenoising(t *testing.T) {
	b := newBuilder(t, ModeDenoising, 6, 0.5)
	text := []int{5, 6, 7}

	f, err := b.Build(example("a"), rand.New(rand.NewPCG(1, 0)))
	require.NoError(t, err)
	require.Len(t, f.InputIDs, 6)

	masked := 0
	for i, id := range f.InputIDs[:3] {
		if id == 4 {
			masked++
			assert.Equal(t, text[i], f.Labels[i])
		} else {
			assert.Equal(t, text[i], id)
			assert.Equal(t, -100, f.Labels[i])
		}
	}
	assert.Equal(t, 1, masked)
	assert.Equal(t, []int{1, 1, 1}, f.InputIDs[3:])
	assert.Equal(t, []int{1, 1, 1, 0, 0, 0}, f.AttentionMask)
	assert.Equal(t, []int{2, -100, -100}, f.Labels[3:])
	assert.Equal(t, []int{0, 5, 6, 7, 1, 1}, f.DecoderInputIDs)
}

func TestBuildDenoisingWithoutSummary(t *testing.T) {
	b := newBuilder(t, ModeDenoising, 6, 1)
	ex := example("a")
	ex.HasSummary = false

	f, err := b.Build(ex, rand.New(rand.NewPCG(1, 0)))
	require.NoError(t, err)
	assert.Equal(t, []int{4, 4, 4, 1, 1, 1}, f.InputIDs)
	assert.Equal(t, []int{5, 6, 7, 2, -100, -100}, f.Labels)

	_, err = b.Build(ex, nil)
	assert.Error(t, err)
}

func TestNewBuilderValidation(t *testing.T) {
	tok := newTokenizer(t)
	tests := []struct {
		name string
		opts BuildOptions
	}{
		{"unknown mode", BuildOptions{Mode: "translate", MaxLen: 4}},
		{"zero max len", BuildOptions{Mode: ModeSummarization, MaxLen: 0}},
		{"rate too high", BuildOptions{Mode: ModeDenoising, MaxLen: 4, MaskingRate: 1.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(tok, nil, tt.opts)
			assert.ErrorIs(t, err, common.ErrConfiguration)
		})
	}

	_, err := NewBuilder(nil, nil, BuildOptions{Mode: ModeSummarization, MaxLen: 4})
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestTokenLengths(t *testing.T) {
	b := newBuilder(t, ModeSummarization, 6, 0)
	ex2 := example("b")
	ex2.Text = "안녕"
	lengths, err := b.TokenLengths([]dialogue.Example{example("a"), ex2})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, lengths)
}

func manyExamples(n int) []dialogue.Example {
	out := make([]dialogue.Example, n)
	for i := range out {
		out[i] = example(fmt.Sprintf("dlg-%03d", i))
	}
	return out
}

func TestRunnerPreservesOrder(t *testing.T) {
	r, err := NewRunner(newBuilder(t, ModeSummarization, 6, 0), RunOptions{Workers: 4}, zerolog.Nop())
	require.NoError(t, err)

	exs := manyExamples(50)
	res, err := r.Run(context.Background(), exs)
	require.NoError(t, err)
	require.Len(t, res.Features, 50)
	for i, f := range res.Features {
		assert.Equal(t, exs[i].ID, f.ID)
	}
	assert.Zero(t, res.Skipped)
}

func TestRunnerErrorPolicies(t *testing.T) {
	exs := manyExamples(10)
	exs[3].HasSummary = false
	exs[7].HasSummary = false

	failing, err := NewRunner(newBuilder(t, ModeSummarization, 6, 0), RunOptions{Workers: 2, OnError: FailFast}, zerolog.Nop())
	require.NoError(t, err)
	_, err = failing.Run(context.Background(), exs)
	assert.ErrorIs(t, err, common.ErrMalformedRecord)

	skipping, err := NewRunner(newBuilder(t, ModeSummarization, 6, 0), RunOptions{Workers: 2, OnError: SkipAndLog}, zerolog.Nop())
	require.NoError(t, err)
	res, err := skipping.Run(context.Background(), exs)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	require.Len(t, res.Features, 8)
	assert.Equal(t, "dlg-004", res.Features[3].ID)

	_, err = NewRunner(newBuilder(t, ModeSummarization, 6, 0), RunOptions{OnError: "retry"}, zerolog.Nop())
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestRunnerDenoisingIsReproducible(t *testing.T) {
	exs := manyExamples(30)
	run := func(workers int) []Features {
		r, err := NewRunner(newBuilder(t, ModeDenoising, 8, 0.5), RunOptions{Workers: workers, Seed: 99}, zerolog.Nop())
		require.NoError(t, err)
		res, err := r.Run(context.Background(), exs)
		require.NoError(t, err)
		return res.Features
	}
	assert.Equal(t, run(1), run(8))
}

func TestRunnerCancelled(t *testing.T) {
	r, err := NewRunner(newBuilder(t, ModeSummarization, 6, 0), RunOptions{Workers: 2}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, manyExamples(5))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexAndSelectTopics(t *testing.T) {
	exs := manyExamples(4)
	exs[1].Topic = "여행"
	exs[3].Topic = "음식"

	c, err := Index(exs)
	require.NoError(t, err)
	assert.Equal(t, []string{"여행", "음식", "인사"}, c.Topics())

	got := SelectTopics(exs, c, []string{"인사", "음식"})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"dlg-000", "dlg-002", "dlg-003"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Len(t, SelectTopics(exs, c, nil), 4)
	assert.Empty(t, SelectTopics(exs, c, []string{"스포츠"}))

	exs[2].ID = exs[0].ID
	_, err = Index(exs)
	assert.ErrorIs(t, err, common.ErrMalformedRecord)
}

func TestJSONL(t *testing.T) {
	feats := []Features{
		{ID: "a", InputIDs: []int{5, 1}, AttentionMask: []int{1, 0}, DecoderInputIDs: []int{0, 1}, DecoderAttentionMask: []int{1, 0}, Labels: []int{2, -100}},
		{ID: "b", InputIDs: []int{6, 7}, AttentionMask: []int{1, 1}, DecoderInputIDs: []int{0, 6}, DecoderAttentionMask: []int{1, 1}, Labels: []int{6, 2}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, feats))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"id":"a","input_ids":[5,1],"attention_mask":[1,0],"decoder_input_ids":[0,1],"decoder_attention_mask":[1,0],"labels":[2,-100]}`, lines[0])

	back, err := ReadJSONL(&buf)
	require.NoError(t, err)
	assert.Equal(t, feats, back)

	_, err = ReadJSONL(strings.NewReader("{not json}\n"))
	assert.Error(t, err)

	recs := ToRecords(feats)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[1].DialogueID)
	assert.Equal(t, []int{6, 2}, recs[1].Labels)
}
