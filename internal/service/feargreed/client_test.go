package feargreed

import (
	"testing"

	"RiskPulse/internal/domain/models"
)

func TestSentimentMapping(t *testing.T) {
	cases := []struct {
		in   string
		want models.Sentiment
	}{
		{"Extreme Fear", models.SentimentBearish},
		{"Fear", models.SentimentBearish},
		{"Neutral", models.SentimentNeutral},
		{"Greed", models.SentimentBullish},
		{"Extreme Greed", models.SentimentBullish},
		{"", models.SentimentNeutral},
		{"whatever", models.SentimentNeutral},
	}
	for _, c := range cases {
		if got := Sentiment(c.in); got != c.want {
			t.Fatalf("Sentiment(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
