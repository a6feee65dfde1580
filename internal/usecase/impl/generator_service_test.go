package impl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/internal/domain/entity"
)

func testRequests(n int) []entity.GenerationRequest {
	requests := make([]entity.GenerationRequest, 0, n)
	for i := range n {
		requests = append(requests, entity.GenerationRequest{
			PropertyType: entity.PropertyTypeSingleFamily,
			PriceMin:     850_000,
			PriceMax:     2_400_000,
			Bedrooms:     3,
			Bathrooms:    2.0,
			SqftMin:      1200,
			SqftMax:      3400,
			YearBuiltMin: 1895,
			YearBuiltMax: 2015 - i%3,
		})
	}

	return requests
}

func TestGeneratorService_GenerateBatch_SlicesRequests(t *testing.T) {
	completion := &fakeCompletion{
		handler: func(call int, _, _ string) (string, error) {
			switch call {
			case 0:
				return envelopeJSON(validRecord(1), validRecord(2)), nil
			case 1:
				return envelopeJSON(validRecord(3), validRecord(4)), nil
			default:
				return envelopeJSON(validRecord(5)), nil
			}
		},
	}
	pacer := &fakePacer{}
	svc := NewGeneratorService(completion, pacer, testLogger(), 0)

	records, err := svc.GenerateBatch(context.Background(), testRequests(5), 2)
	require.NoError(t, err)

	assert.Len(t, records, 5)
	require.Len(t, completion.prompts, 3)
	assert.Equal(t, 3, pacer.waits)
	assert.Contains(t, completion.prompts[0], "Generate exactly 2 listing record(s)")
	assert.Contains(t, completion.prompts[1], "Generate exactly 2 listing record(s)")
	assert.Contains(t, completion.prompts[2], "Generate exactly 1 listing record(s)")
}

func TestGeneratorService_GenerateBatch_StripsCodeFences(t *testing.T) {
	payload := envelopeJSON(validRecord(7))
	variants := []string{
		payload,
		"```json\n" + payload + "\n```",
		"```\n" + payload + "\n```",
	}

	for i, variant := range variants {
		t.Run(fmt.Sprintf("variant_%d", i), func(t *testing.T) {
			completion := &fakeCompletion{
				handler: func(int, string, string) (string, error) {
					return variant, nil
				},
			}
			svc := NewGeneratorService(completion, &fakePacer{}, testLogger(), 0)

			records, err := svc.GenerateBatch(context.Background(), testRequests(1), 1)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "AP-0000007", records[0].MLSNumber)
		})
	}
}

func TestGeneratorService_GenerateBatch_IsolatesFailedSlice(t *testing.T) {
	completion := &fakeCompletion{
		handler: func(call int, _, _ string) (string, error) {
			if call == 1 {
				return "I could not produce the listings you asked for.", nil
			}

			return envelopeJSON(validRecord(call*10), validRecord(call*10+1)), nil
		},
	}
	svc := NewGeneratorService(completion, &fakePacer{}, testLogger(), 0)

	records, err := svc.GenerateBatch(context.Background(), testRequests(6), 2)
	require.NoError(t, err)

	// The middle slice is dropped; the first and third survive.
	assert.Len(t, records, 4)
	assert.Len(t, completion.prompts, 3)
}

func TestGeneratorService_GenerateBatch_DropsSliceOnSchemaViolation(t *testing.T) {
	broken := validRecord(1)
	broken.Bedrooms = 0

	completion := &fakeCompletion{
		handler: func(call int, _, _ string) (string, error) {
			if call == 0 {
				return envelopeJSON(broken, validRecord(2)), nil
			}

			return envelopeJSON(validRecord(3), validRecord(4)), nil
		},
	}
	svc := NewGeneratorService(completion, &fakePacer{}, testLogger(), 0)

	records, err := svc.GenerateBatch(context.Background(), testRequests(4), 2)
	require.NoError(t, err)

	// One invalid record poisons its whole slice, including the valid sibling.
	require.Len(t, records, 2)
	assert.Equal(t, "AP-0000003", records[0].MLSNumber)
	assert.Equal(t, "AP-0000004", records[1].MLSNumber)
}

func TestGeneratorService_GenerateBatch_LogsRawResponseOnFailure(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{name: "parse failure", response: "sorry, here are your listings: AP-9999999"},
		{name: "schema failure", response: func() string {
			broken := validRecord(1)
			broken.Bedrooms = 0

			return envelopeJSON(broken)
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logged bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logged, &slog.HandlerOptions{Level: slog.LevelDebug}))

			completion := &fakeCompletion{
				handler: func(int, string, string) (string, error) {
					return tc.response, nil
				},
			}
			svc := NewGeneratorService(completion, &fakePacer{}, logger, 0)

			records, err := svc.GenerateBatch(context.Background(), testRequests(1), 1)
			require.NoError(t, err)
			assert.Empty(t, records)

			// The raw payload must be recoverable from the logs.
			assert.Contains(t, logged.String(), "AP-")
		})
	}
}

func TestGeneratorService_GenerateBatch_CompletionErrorSkipsSlice(t *testing.T) {
	completion := &fakeCompletion{
		handler: func(call int, _, _ string) (string, error) {
			if call == 0 {
				return "", errors.New("upstream 500")
			}

			return envelopeJSON(validRecord(1)), nil
		},
	}
	svc := NewGeneratorService(completion, &fakePacer{}, testLogger(), 0)

	records, err := svc.GenerateBatch(context.Background(), testRequests(2), 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGeneratorService_GenerateBatch_PacerErrorAborts(t *testing.T) {
	completion := &fakeCompletion{
		handler: func(int, string, string) (string, error) {
			return envelopeJSON(validRecord(1)), nil
		},
	}
	pacer := &fakePacer{err: context.Canceled}
	svc := NewGeneratorService(completion, pacer, testLogger(), 0)

	records, err := svc.GenerateBatch(context.Background(), testRequests(2), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
	assert.Empty(t, completion.prompts)
}

func TestGeneratorService_GenerateBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	completion := &fakeCompletion{
		handler: func(int, string, string) (string, error) {
			return "", ctx.Err()
		},
	}
	svc := NewGeneratorService(completion, &fakePacer{}, testLogger(), 0)

	_, err := svc.GenerateBatch(ctx, testRequests(1), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "leading whitespace", in: "  \n```json\n{\"a\":1}\n```\n", want: `{"a":1}`},
		{name: "single line fence", in: "```{}", want: "{}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFence(tc.in))
		})
	}
}

func TestGeneratorService_GenerateBatch_EmptyEnvelopeFailsSlice(t *testing.T) {
	completion := &fakeCompletion{
		handler: func(int, string, string) (string, error) {
			return `{"properties": []}`, nil
		},
	}
	svc := NewGeneratorService(completion, &fakePacer{}, testLogger(), 0)

	records, err := svc.GenerateBatch(context.Background(), testRequests(2), 2)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGeneratorService_PromptCarriesSpecs(t *testing.T) {
	completion := &fakeCompletion{
		handler: func(_ int, systemPrompt, userPrompt string) (string, error) {
			assert.True(t, strings.Contains(systemPrompt, "Alder Point"))
			assert.True(t, strings.Contains(userPrompt, "property_type=single_family"))

			return envelopeJSON(validRecord(1)), nil
		},
	}
	svc := NewGeneratorService(completion, &fakePacer{}, testLogger(), 0)

	_, err := svc.GenerateBatch(context.Background(), testRequests(1), 1)
	require.NoError(t, err)
}
