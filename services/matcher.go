package services

import (
	"fmt"
	"strings"

	"github.com/kendall-kelly/ganges-support-api/models"
)

// FallbackAnswer is sent when no predefined answer matches the user's question
const FallbackAnswer = "I'm sorry, I couldn't find a specific answer to your question. Would you like me to escalate this to our support team?"

// DefaultMatchThreshold is the number of matched keywords a candidate must exceed
const DefaultMatchThreshold = 2

const orderDateLayout = "January 2, 2006"

// Token groups checked against the lower-cased question when an order is selected.
// The sub-check groups are evaluated in this order: status, delivery, tracking.
var (
	orderTokens    = []string{"order", "delivery", "status", "track"}
	statusTokens   = []string{"status", "where", "update"}
	deliveryTokens = []string{"delivery", "when"}
	trackingTokens = []string{"track", "tracking"}
)

// MatcherOptions tunes the keyword-overlap heuristic
type MatcherOptions struct {
	// Threshold is the number of matched keywords a candidate must exceed.
	// Zero or negative means DefaultMatchThreshold.
	Threshold int
	// StopWords are ignored on both sides of the comparison. Empty by default,
	// which keeps common words like "the" or "is" counting as matches.
	StopWords []string
}

// Matcher maps a free-text question to a predefined answer. It holds no mutable state.
type Matcher struct {
	threshold int
	stopWords map[string]bool
}

var defaultMatcher = NewMatcher(MatcherOptions{})

// NewMatcher creates a matcher with the given options
func NewMatcher(opts MatcherOptions) *Matcher {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}

	stopWords := make(map[string]bool, len(opts.StopWords))
	for _, word := range opts.StopWords {
		if word = strings.ToLower(strings.TrimSpace(word)); word != "" {
			stopWords[word] = true
		}
	}

	return &Matcher{threshold: threshold, stopWords: stopWords}
}

// FindBestAnswer matches question using the default options
func FindBestAnswer(question string, candidates []models.PredefinedQuestion, order *models.OrderContext) (string, bool) {
	return defaultMatcher.FindBestAnswer(question, candidates, order)
}

// FindBestAnswer returns the answer for question, or false when nothing matches.
//
// With an order selected and an order-related question, the reply is composed from the
// order instead of the candidates. Otherwise the first candidate, in the given order,
// with more than the threshold of matched keywords wins.
func (m *Matcher) FindBestAnswer(question string, candidates []models.PredefinedQuestion, order *models.OrderContext) (string, bool) {
	lowerQuestion := strings.ToLower(question)

	if order != nil {
		if answer, ok := orderAnswer(lowerQuestion, order); ok {
			return answer, true
		}
	}

	questionWords := m.words(lowerQuestion)
	for _, candidate := range candidates {
		keywords := m.words(strings.ToLower(candidate.Question))
		if countMatches(keywords, questionWords) > m.threshold {
			return candidate.Answer, true
		}
	}

	return "", false
}

func (m *Matcher) words(text string) []string {
	fields := strings.Fields(text)
	if len(m.stopWords) == 0 {
		return fields
	}
	words := fields[:0]
	for _, word := range fields {
		if !m.stopWords[word] {
			words = append(words, word)
		}
	}
	return words
}

// countMatches counts keywords contained in, or containing, some question word
func countMatches(keywords, questionWords []string) int {
	matches := 0
	for _, keyword := range keywords {
		for _, word := range questionWords {
			if strings.Contains(word, keyword) || strings.Contains(keyword, word) {
				matches++
				break
			}
		}
	}
	return matches
}

func orderAnswer(lowerQuestion string, order *models.OrderContext) (string, bool) {
	if !containsAny(lowerQuestion, orderTokens) {
		return "", false
	}

	switch {
	case containsAny(lowerQuestion, statusTokens):
		return orderStatusAnswer(order), true
	case containsAny(lowerQuestion, deliveryTokens):
		return orderDeliveryAnswer(order), true
	case containsAny(lowerQuestion, trackingTokens):
		return orderTrackingAnswer(order), true
	default:
		return fmt.Sprintf("Order %s: %s, status %s, ordered on %s.",
			order.OrderNumber, order.Model, order.Status, order.OrderDate.Format(orderDateLayout)), true
	}
}

func orderStatusAnswer(order *models.OrderContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Your order %s (%s) is currently %s.", order.OrderNumber, order.Model, order.Status)
	if order.ExpectedDelivery != nil {
		fmt.Fprintf(&b, " Expected delivery: %s.", order.ExpectedDelivery.Format(orderDateLayout))
	}
	if order.TrackingNumber != nil && *order.TrackingNumber != "" {
		fmt.Fprintf(&b, " Tracking number: %s.", *order.TrackingNumber)
	}
	return b.String()
}

func orderDeliveryAnswer(order *models.OrderContext) string {
	if order.ExpectedDelivery != nil {
		return fmt.Sprintf("Your order %s (%s) is expected to be delivered on %s.",
			order.OrderNumber, order.Model, order.ExpectedDelivery.Format(orderDateLayout))
	}
	return fmt.Sprintf("Your order %s is currently %s. We will update you as soon as a delivery date is confirmed.",
		order.OrderNumber, order.Status)
}

func orderTrackingAnswer(order *models.OrderContext) string {
	if order.TrackingNumber != nil && *order.TrackingNumber != "" {
		return fmt.Sprintf("The tracking number for order %s is %s.", order.OrderNumber, *order.TrackingNumber)
	}
	return fmt.Sprintf("A tracking number for order %s will be available once it has shipped.", order.OrderNumber)
}

func containsAny(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}
