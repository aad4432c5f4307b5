package services

import (
	"testing"
	"time"

	"github.com/kendall-kelly/ganges-support-api/models"
	"github.com/stretchr/testify/assert"
)

func catalog(pairs ...string) []models.PredefinedQuestion {
	var questions []models.PredefinedQuestion
	for i := 0; i+1 < len(pairs); i += 2 {
		questions = append(questions, models.PredefinedQuestion{
			ID:       uint(i/2 + 1),
			Question: pairs[i],
			Answer:   pairs[i+1],
			IsActive: true,
		})
	}
	return questions
}

func shippedOrder() *models.OrderContext {
	tracking := "TRK9"
	return &models.OrderContext{
		OrderNumber:    "GNG123",
		Model:          "Ganges-2X",
		Status:         models.OrderStatusShipped,
		OrderDate:      time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC),
		TrackingNumber: &tracking,
	}
}

func TestFindBestAnswer_ChargeScenario(t *testing.T) {
	candidates := catalog("How do I charge my scooter", "Plug in the charger...")

	answer, ok := FindBestAnswer("how do I charge my scooter battery", candidates, nil)
	assert.True(t, ok)
	assert.Equal(t, "Plug in the charger...", answer)
}

func TestFindBestAnswer_Deterministic(t *testing.T) {
	candidates := catalog(
		"How do I charge my scooter", "Plug in the charger...",
		"What is the warranty period", "Two years from delivery.",
	)

	first, firstOK := FindBestAnswer("what is the warranty period for my scooter", candidates, nil)
	for i := 0; i < 10; i++ {
		answer, ok := FindBestAnswer("what is the warranty period for my scooter", candidates, nil)
		assert.Equal(t, firstOK, ok)
		assert.Equal(t, first, answer)
	}
}

func TestFindBestAnswer_Threshold(t *testing.T) {
	candidates := catalog("reset bluetooth pairing code", "Hold the power button for ten seconds.")

	tests := []struct {
		name     string
		question string
		wantOK   bool
	}{
		{"two matched keywords are not enough", "reset bluetooth", false},
		{"three matched keywords select the candidate", "reset bluetooth pairing", true},
		{"matching is case-insensitive", "RESET Bluetooth PAIRING", true},
		{"substring in either direction counts", "resetting bluetoothless pair", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, ok := FindBestAnswer(tt.question, candidates, nil)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, "Hold the power button for ten seconds.", answer)
			} else {
				assert.Empty(t, answer)
			}
		})
	}
}

func TestFindBestAnswer_FirstCandidateOverThresholdWins(t *testing.T) {
	candidates := catalog(
		"charge scooter battery", "first",
		"charge scooter battery fully overnight", "second",
	)

	answer, ok := FindBestAnswer("charge scooter battery fully overnight", candidates, nil)
	assert.True(t, ok)
	assert.Equal(t, "first", answer, "no best-of-N scoring: enumeration order decides")
}

func TestFindBestAnswer_NoMatch(t *testing.T) {
	candidates := catalog("How do I charge my scooter", "Plug in the charger...")

	answer, ok := FindBestAnswer("payment refund", candidates, nil)
	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestFindBestAnswer_EmptyCandidates(t *testing.T) {
	answer, ok := FindBestAnswer("how do I charge my scooter", nil, nil)
	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestFindBestAnswer_ShortWordMatchesUnrelatedEntry(t *testing.T) {
	candidates := catalog("How can I start a ride", "Press the start button.")

	// "a" is contained in "can", "start" and "a"
	answer, ok := FindBestAnswer("a", candidates, nil)
	assert.True(t, ok)
	assert.Equal(t, "Press the start button.", answer)
}

func TestMatcher_StopWordsExcludeCommonWords(t *testing.T) {
	candidates := catalog("How can I start a ride", "Press the start button.")
	matcher := NewMatcher(MatcherOptions{StopWords: []string{"a", " I ", "how"}})

	_, ok := matcher.FindBestAnswer("a", candidates, nil)
	assert.False(t, ok)

	answer, ok := matcher.FindBestAnswer("can i start my ride", candidates, nil)
	assert.True(t, ok)
	assert.Equal(t, "Press the start button.", answer)
}

func TestMatcher_CustomThreshold(t *testing.T) {
	candidates := catalog("reset bluetooth pairing code", "Hold the power button.")
	strict := NewMatcher(MatcherOptions{Threshold: 3})

	_, ok := strict.FindBestAnswer("reset bluetooth pairing", candidates, nil)
	assert.False(t, ok)

	_, ok = strict.FindBestAnswer("reset bluetooth pairing code", candidates, nil)
	assert.True(t, ok)
}

func TestFindBestAnswer_OrderStatusScenario(t *testing.T) {
	answer, ok := FindBestAnswer("where is my order", nil, shippedOrder())
	assert.True(t, ok)
	assert.Contains(t, answer, "GNG123")
	assert.Contains(t, answer, "shipped")
	assert.Equal(t, "Your order GNG123 (Ganges-2X) is currently shipped. Tracking number: TRK9.", answer)
}

func TestFindBestAnswer_StatusWinsOverTracking(t *testing.T) {
	answer, ok := FindBestAnswer("what is the status of my order tracking", nil, shippedOrder())
	assert.True(t, ok)
	assert.Equal(t, "Your order GNG123 (Ganges-2X) is currently shipped. Tracking number: TRK9.", answer)
	assert.NotContains(t, answer, "The tracking number for order")
}

func TestFindBestAnswer_StatusIncludesExpectedDelivery(t *testing.T) {
	order := shippedOrder()
	delivery := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	order.ExpectedDelivery = &delivery

	answer, ok := FindBestAnswer("any update on my order?", nil, order)
	assert.True(t, ok)
	assert.Equal(t, "Your order GNG123 (Ganges-2X) is currently shipped. Expected delivery: April 1, 2024. Tracking number: TRK9.", answer)
}

func TestFindBestAnswer_OrderDelivery(t *testing.T) {
	order := shippedOrder()

	answer, ok := FindBestAnswer("when will my order arrive", nil, order)
	assert.True(t, ok)
	assert.Equal(t, "Your order GNG123 is currently shipped. We will update you as soon as a delivery date is confirmed.", answer)

	delivery := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	order.ExpectedDelivery = &delivery
	answer, ok = FindBestAnswer("delivery date please", nil, order)
	assert.True(t, ok)
	assert.Equal(t, "Your order GNG123 (Ganges-2X) is expected to be delivered on April 1, 2024.", answer)
}

func TestFindBestAnswer_OrderTracking(t *testing.T) {
	order := shippedOrder()

	answer, ok := FindBestAnswer("track my order", nil, order)
	assert.True(t, ok)
	assert.Equal(t, "The tracking number for order GNG123 is TRK9.", answer)

	order.TrackingNumber = nil
	answer, ok = FindBestAnswer("give me the tracking number", nil, order)
	assert.True(t, ok)
	assert.Equal(t, "A tracking number for order GNG123 will be available once it has shipped.", answer)
}

func TestFindBestAnswer_OrderGenericSummary(t *testing.T) {
	answer, ok := FindBestAnswer("I want to cancel my order", nil, shippedOrder())
	assert.True(t, ok)
	assert.Equal(t, "Order GNG123: Ganges-2X, status shipped, ordered on March 1, 2024.", answer)
}

func TestFindBestAnswer_OrderSelectedButQuestionNotOrderRelated(t *testing.T) {
	candidates := catalog("How do I charge my scooter", "Plug in the charger...")

	answer, ok := FindBestAnswer("how do I charge my scooter battery", candidates, shippedOrder())
	assert.True(t, ok)
	assert.Equal(t, "Plug in the charger...", answer)

	_, ok = FindBestAnswer("where is the charging port", nil, shippedOrder())
	assert.False(t, ok, "status words alone do not trigger an order reply")
}

func TestFindBestAnswer_OrderQuestionWithoutOrderUsesCatalog(t *testing.T) {
	candidates := catalog("where is my order right now", "Select an order to see its status.")

	answer, ok := FindBestAnswer("where is my order", candidates, nil)
	assert.True(t, ok)
	assert.Equal(t, "Select an order to see its status.", answer)
}
