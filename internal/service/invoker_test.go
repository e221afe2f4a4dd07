package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloo-solutions/geomed/internal/domain"
	"github.com/cloo-solutions/geomed/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 9, 15, 4, 5, 0, time.UTC)

func janeInput() domain.ProfessionalInput {
	return domain.ProfessionalInput{
		Name:        "Dr. Jane Doe",
		Email:       "jane@x.edu",
		Hospital:    "X Hospital",
		PubMedTopic: "Oncology",
	}
}

func newTestInvoker(o oracle.Oracle, timeout time.Duration) *Invoker {
	return NewInvokerWithDeps(o, timeout, &sequentialUUIDs{}, func() time.Time { return fixedNow })
}

func TestInvoker_Invoke_Success(t *testing.T) {
	mockOracle := new(MockOracle)
	inv := newTestInvoker(mockOracle, time.Second)

	p := canadaPrediction()
	p.City = domain.StringPtr("Toronto")
	empty := ""
	p.Specialty = &empty
	mockOracle.On("Predict", mock.Anything, janeInput()).Return(p, nil)

	rec, err := inv.Invoke(context.Background(), janeInput())

	require.NoError(t, err)
	assert.Equal(t, "id-1", rec.ID)
	assert.Equal(t, "Dr. Jane Doe", rec.Name)
	assert.Equal(t, "Canada", rec.PredictedCountry)
	assert.Equal(t, 87.5, rec.ConfidenceScore)
	assert.Equal(t, "Toronto", *rec.City)
	assert.Nil(t, rec.Specialty)
	assert.Nil(t, rec.PublicProfileURL)
	assert.Equal(t, fixedNow, rec.Timestamp)
	assert.Equal(t, []string{"AI Analysis", "Hospital Name Analysis"}, rec.Sources)
	mockOracle.AssertNumberOfCalls(t, "Predict", 1)
}

func TestInvoker_Invoke_OracleError(t *testing.T) {
	mockOracle := new(MockOracle)
	inv := newTestInvoker(mockOracle, time.Second)

	upstream := errors.New("model overloaded")
	mockOracle.On("Predict", mock.Anything, janeInput()).Return(nil, upstream)

	rec, err := inv.Invoke(context.Background(), janeInput())

	assert.Nil(t, rec)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInference))
	assert.ErrorIs(t, err, upstream)
	mockOracle.AssertNumberOfCalls(t, "Predict", 1)
}

func TestInvoker_Invoke_Timeout(t *testing.T) {
	slow := oracleFunc(func(ctx context.Context, _ domain.ProfessionalInput) (*domain.Prediction, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	inv := newTestInvoker(slow, 20*time.Millisecond)

	rec, err := inv.Invoke(context.Background(), janeInput())

	assert.Nil(t, rec)
	require.Error(t, err)
	assert.True(t, domain.HasCode(err, domain.ErrCodeInference))
	assert.Contains(t, err.Error(), "timed out")
}

func TestInvoker_Invoke_ContractViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *domain.Prediction)
		wantErr string
	}{
		{"missing country", func(p *domain.Prediction) { p.PredictedCountry = "" }, "predicted_country"},
		{"missing confidence", func(p *domain.Prediction) { p.ConfidenceScore = nil }, "confidence_score"},
		{"confidence above range", func(p *domain.Prediction) { p.ConfidenceScore = confidence(140) }, "outside [0, 100]"},
		{"confidence below range", func(p *domain.Prediction) { p.ConfidenceScore = confidence(-1) }, "outside [0, 100]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := canadaPrediction()
			tt.mutate(p)
			inv := newTestInvoker(oracleFunc(func(context.Context, domain.ProfessionalInput) (*domain.Prediction, error) {
				return p, nil
			}), time.Second)

			rec, err := inv.Invoke(context.Background(), janeInput())

			assert.Nil(t, rec)
			assert.True(t, domain.HasCode(err, domain.ErrCodeInference))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInvoker_Invoke_BoundaryConfidence(t *testing.T) {
	for _, c := range []float64{0, 100} {
		p := canadaPrediction()
		p.ConfidenceScore = confidence(c)
		inv := newTestInvoker(oracleFunc(func(context.Context, domain.ProfessionalInput) (*domain.Prediction, error) {
			return p, nil
		}), time.Second)

		rec, err := inv.Invoke(context.Background(), janeInput())

		require.NoError(t, err)
		assert.Equal(t, c, rec.ConfidenceScore)
	}
}

func TestInvoker_Invoke_NilPrediction(t *testing.T) {
	inv := newTestInvoker(oracleFunc(func(context.Context, domain.ProfessionalInput) (*domain.Prediction, error) {
		return nil, nil
	}), time.Second)

	_, err := inv.Invoke(context.Background(), janeInput())

	assert.True(t, domain.HasCode(err, domain.ErrCodeInference))
}
