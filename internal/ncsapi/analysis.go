package ncsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Analysis requests are processed by a stub worker. The produced numbers are
// random placeholders, not real statistics, and every result is labeled as a
// stub so the presentation layer cannot present it as a real computation.

const TypeAnalysisRun = "analysis:run"

const analysisResultTTL = 24 * time.Hour

type AnalysisRequest struct {
	Id          string `json:"id"`
	UserId      uint   `json:"user_id"`
	Method      string `json:"method"` // eg. t-test, anova, regression
	Description string `json:"description"`
	DataSummary string `json:"data_summary"`
}

type AnalysisResult struct {
	Id          string    `json:"id"`
	UserId      uint      `json:"user_id"`
	Method      string    `json:"method"`
	Status      string    `json:"status"` // "pending", "done"
	Stub        bool      `json:"stub"`   // always true, placeholder numbers only
	SampleSize  int       `json:"sample_size"`
	Statistic   float64   `json:"statistic"`
	PValue      float64   `json:"p_value"`
	CompletedAt time.Time `json:"completed_at"`
}

func analysisResultKey(id string) string {
	return fmt.Sprintf("analysis_result@%s", id)
}

// NewAnalysisTask packs the request into an asynq task for the analysis queue.
func NewAnalysisTask(request AnalysisRequest) (*asynq.Task, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAnalysisRun, payload,
		asynq.Queue("analysis"),
		asynq.TaskID(request.Id),
		asynq.Retention(analysisResultTTL),
	), nil
}

// MarkAnalysisPending stores the pending placeholder so the status endpoint
// has something to return before the worker picks the task up.
func MarkAnalysisPending(ctx context.Context, rdb *redis.Client, request AnalysisRequest) error {
	pending := AnalysisResult{
		Id:     request.Id,
		UserId: request.UserId,
		Method: request.Method,
		Status: "pending",
		Stub:   true,
	}
	raw, err := json.Marshal(pending)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, analysisResultKey(request.Id), raw, analysisResultTTL).Err()
}

// GetAnalysisResult reads the stored result, pending or done.
func GetAnalysisResult(ctx context.Context, rdb *redis.Client, id string) (result AnalysisResult, err error) {
	raw, err := rdb.Get(ctx, analysisResultKey(id)).Result()
	if err != nil {
		return result, ErrNotFound
	}
	err = json.Unmarshal([]byte(raw), &result)
	if err != nil {
		return result, err
	}
	return result, nil
}

// HandleAnalysisTask is the asynq handler. It fabricates placeholder numbers
// in place of a real statistics engine and stores the labeled stub result.
func HandleAnalysisTask(rdb *redis.Client) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var request AnalysisRequest
		if err := json.Unmarshal(t.Payload(), &request); err != nil {
			return fmt.Errorf("analysis payload: %v: %w", err, asynq.SkipRetry)
		}
		result := AnalysisResult{
			Id:          request.Id,
			UserId:      request.UserId,
			Method:      request.Method,
			Status:      "done",
			Stub:        true,
			SampleSize:  30 + rand.Intn(970),
			Statistic:   rand.Float64() * 10,
			PValue:      rand.Float64(),
			CompletedAt: time.Now(),
		}
		raw, err := json.Marshal(result)
		if err != nil {
			return err
		}
		return rdb.Set(ctx, analysisResultKey(request.Id), raw, analysisResultTTL).Err()
	}
}
