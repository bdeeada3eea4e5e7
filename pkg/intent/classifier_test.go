package intent

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"srh-intent/internal/entity"
	"srh-intent/pkg/llm"
	"srh-intent/pkg/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contraceptionAnswer = "```json\n{\"Topic\":\"Contraception and Family Planning\",\"Subtopic\":\"Types of Contraceptives\",\"Confidence\":0.9,\"Reason\":\"asks about alternatives to emergency contraception\"}\n```"

func testConfig() Config {
	cfg := DefaultConfig("sarvamai/sarvam-m")
	cfg.Backoff = time.Millisecond
	return cfg
}

// scripted returns the answers in order, repeating the last one.
func scripted(calls *int32, answers ...func() (string, error)) llm.ProviderFunc {
	return func(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
		n := int(atomic.AddInt32(calls, 1)) - 1
		if n >= len(answers) {
			n = len(answers) - 1
		}
		return answers[n]()
	}
}

func answer(s string) func() (string, error) { return func() (string, error) { return s, nil } }
func fail(err error) func() (string, error)  { return func() (string, error) { return "", err } }

func TestClassifySuccess(t *testing.T) {
	var calls int32
	var seen []llm.Message
	var opts llm.Options
	provider := llm.ProviderFunc(func(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
		atomic.AddInt32(&calls, 1)
		seen = history
		opts = llm.Apply(llm.Options{}, options...)
		return contraceptionAnswer, nil
	})

	q := entity.Query{ID: "17", Text: "Emergency garbhnirodhak dawaai ke alawa aur kya options hain?"}
	res := NewClassifier(provider, taxonomy.Default(), testConfig(), nil).Classify(context.Background(), q)

	require.True(t, res.Succeeded())
	assert.EqualValues(t, 1, calls)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, entity.RowID("17"), res.ID)
	assert.Equal(t, q.Text, res.Query)
	assert.Equal(t, "Contraception and Family Planning", *res.Topic)
	assert.Equal(t, "Types of Contraceptives", *res.Subtopic)
	assert.InDelta(t, 0.9, *res.Confidence, 1e-9)
	require.NotNil(t, res.Reason)
	assert.Equal(t, "asks about alternatives to emergency contraception", *res.Reason)
	assert.Equal(t, contraceptionAnswer, res.RawOutput)
	assert.Equal(t, "sarvamai/sarvam-m", res.Model)

	require.Len(t, seen, 2)
	assert.Equal(t, SystemPrompt, seen[0].Content)
	assert.Contains(t, seen[1].Content, q.Text)
	assert.Equal(t, "sarvamai/sarvam-m", opts.Model)
	require.NotNil(t, opts.Temperature)
	assert.InDelta(t, 0.1, *opts.Temperature, 1e-9)
}

func TestClassifyRetriesThenSucceeds(t *testing.T) {
	var calls int32
	provider := scripted(&calls,
		fail(errors.New("503 upstream")),
		answer("I think it is about contraception."),
		answer(contraceptionAnswer),
	)

	res := NewClassifier(provider, nil, testConfig(), nil).Classify(context.Background(), entity.Query{ID: "1", Text: "q"})

	require.True(t, res.Succeeded())
	assert.EqualValues(t, 3, calls)
	assert.Equal(t, 3, res.Attempts)
}

func TestClassifyRetryBound(t *testing.T) {
	for _, maxRetries := range []int{0, 1, 2, 4} {
		var calls int32
		cfg := testConfig()
		cfg.MaxRetries = maxRetries
		provider := scripted(&calls, fail(errors.New("connection refused")))

		res := NewClassifier(provider, nil, cfg, nil).Classify(context.Background(), entity.Query{ID: "9", Text: "q"})

		assert.EqualValues(t, maxRetries+1, calls, "max retries %d", maxRetries)
		assert.False(t, res.Succeeded())
		assert.Equal(t, entity.StatusFailed, res.Status)
		assert.Equal(t, "[ERROR] connection refused", res.RawOutput)
		assert.Nil(t, res.Topic)
		assert.Nil(t, res.Subtopic)
		assert.Nil(t, res.Confidence)
		assert.Nil(t, res.Reason)
	}
}

func TestClassifyReportsLastError(t *testing.T) {
	var calls int32
	provider := scripted(&calls,
		fail(errors.New("first")),
		answer(`{"Subtopic": "Symptoms"}`),
	)
	cfg := testConfig()
	cfg.MaxRetries = 1

	res := NewClassifier(provider, nil, cfg, nil).Classify(context.Background(), entity.Query{ID: "2", Text: "q"})

	assert.False(t, res.Succeeded())
	assert.True(t, strings.HasPrefix(res.RawOutput, entity.ErrorOutputPrefix))
	assert.Contains(t, res.RawOutput, ErrMissingTopic.Error())
	assert.NotContains(t, res.RawOutput, "first")
}

func TestClassifyBackoffIsLinear(t *testing.T) {
	var stamps []time.Time
	provider := llm.ProviderFunc(func(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
		stamps = append(stamps, time.Now())
		return "", errors.New("down")
	})
	cfg := testConfig()
	cfg.Backoff = 20 * time.Millisecond

	NewClassifier(provider, nil, cfg, nil).Classify(context.Background(), entity.Query{ID: "3", Text: "q"})

	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
}

func TestClassifyPairValidation(t *testing.T) {
	mismatched := "```json\n{\"Topic\": \"HIV\", \"Subtopic\": \"Menopause\", \"Confidence\": 0.4}\n```"

	t.Run("lenient accepts", func(t *testing.T) {
		var calls int32
		res := NewClassifier(scripted(&calls, answer(mismatched)), nil, testConfig(), nil).
			Classify(context.Background(), entity.Query{ID: "4", Text: "q"})
		assert.True(t, res.Succeeded())
		assert.EqualValues(t, 1, calls)
	})

	t.Run("strict retries", func(t *testing.T) {
		var calls int32
		cfg := testConfig()
		cfg.ValidatePairs = true
		res := NewClassifier(scripted(&calls, answer(mismatched), answer(contraceptionAnswer)), nil, cfg, nil).
			Classify(context.Background(), entity.Query{ID: "4", Text: "q"})
		require.True(t, res.Succeeded())
		assert.EqualValues(t, 2, calls)
		assert.Equal(t, "Contraception and Family Planning", *res.Topic)
	})

	t.Run("strict exhausts", func(t *testing.T) {
		var calls int32
		cfg := testConfig()
		cfg.ValidatePairs = true
		res := NewClassifier(scripted(&calls, answer(mismatched)), nil, cfg, nil).
			Classify(context.Background(), entity.Query{ID: "4", Text: "q"})
		assert.False(t, res.Succeeded())
		assert.Contains(t, res.RawOutput, ErrInvalidPair.Error())
	})
}

func TestClassifyStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32
	provider := llm.ProviderFunc(func(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
		atomic.AddInt32(&calls, 1)
		cancel()
		return "", ctx.Err()
	})

	res := NewClassifier(provider, nil, testConfig(), nil).Classify(ctx, entity.Query{ID: "5", Text: "q"})

	assert.EqualValues(t, 1, calls)
	assert.False(t, res.Succeeded())
	assert.Contains(t, res.RawOutput, context.Canceled.Error())
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "recoverable", OutcomeRecoverable.String())
	assert.Equal(t, "exhausted", OutcomeExhausted.String())
	assert.Equal(t, "Outcome(7)", Outcome(7).String())
}

func TestExcerptKeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("a", outputExcerptLimit-1) + strings.Repeat("गर्भ", 10)
	got := excerpt(s)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", outputExcerptLimit-1)+"...", got)

	assert.Equal(t, "short", excerpt("  short "))
}

func TestFailedRawOutputIsValidUTF8(t *testing.T) {
	var calls int32
	long := strings.Repeat("यह गर्भनिरोधक के बारे में है। ", 20)
	cfg := testConfig()
	cfg.MaxRetries = 0

	res := NewClassifier(scripted(&calls, answer(long)), nil, cfg, nil).
		Classify(context.Background(), entity.Query{ID: "6", Text: "q"})

	require.False(t, res.Succeeded())
	assert.True(t, utf8.ValidString(res.RawOutput))
	assert.Contains(t, res.RawOutput, "...")
}
