package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/domain/repository"
	pkgkafka "RiskPulse/pkg/kafka"
)

// KafkaSink implements ResultSink over a Kafka topic: one message per risk
// record, keyed by asset so per-asset ordering holds across runs.
type KafkaSink struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSink creates a Kafka result sink.
func NewKafkaSink(producer *pkgkafka.Producer, topic string) repository.ResultSink {
	return &KafkaSink{producer: producer, topic: topic}
}

func (k *KafkaSink) Emit(ctx context.Context, a *models.Analysis) error {
	if a == nil || len(a.Records) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(a.Records))
	for i, r := range a.Records {
		msgs[i] = pkgkafka.Message{
			Key: []byte(r.AssetID),
			Value: map[string]interface{}{
				"generated_at":   a.GeneratedAt,
				"asset_id":       r.AssetID,
				"risk":           r.Risk,
				"recommendation": r.Recommendation,
				"portfolio_risk": a.PortfolioRisk,
			},
		}
	}
	if err := k.producer.PublishBatch(ctx, k.topic, msgs); err != nil {
		return fmt.Errorf("publish analysis: %w", err)
	}
	return nil
}

func (k *KafkaSink) Close() error {
	if k.producer != nil {
		return k.producer.Close()
	}
	return nil
}

// ClickHouseSink implements ResultSink over a MergeTree table for offline
// analysis of score history. The engine itself stays stateless; rows here are
// append-only run outputs.
type ClickHouseSink struct {
	db    *sql.DB
	table string
}

// NewClickHouseSink creates a ClickHouse result sink.
func NewClickHouseSink(db *sql.DB, table string) repository.ResultSink {
	return &ClickHouseSink{db: db, table: table}
}

func (c *ClickHouseSink) Emit(ctx context.Context, a *models.Analysis) error {
	if a == nil || len(a.Records) == 0 {
		return nil
	}
	values := make([]string, 0, len(a.Records))
	args := make([]interface{}, 0, len(a.Records)*8)
	for _, r := range a.Records {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			a.GeneratedAt,
			r.AssetID,
			r.Risk,
			string(r.Recommendation),
			r.Factors.SentimentRisk,
			r.Factors.TechnicalRisk,
			r.Factors.CycleRisk,
			a.PortfolioRisk,
		)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (generated_at, asset_id, risk, recommendation, sentiment_risk, technical_risk, cycle_risk, portfolio_risk) VALUES %s",
		c.table, strings.Join(values, ","),
	)
	if _, err := c.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (c *ClickHouseSink) Close() error {
	return nil // pool is managed by pkg/clickhouse
}
