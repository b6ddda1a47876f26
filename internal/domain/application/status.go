package application

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusInterested Status = "interested"
	StatusApplied    Status = "applied"
	StatusInterview  Status = "interview"
	StatusOffer      Status = "offer"
	StatusRejected   Status = "rejected"
	StatusAccepted   Status = "accepted"
	StatusDeclined   Status = "declined"
)

// stage orders statuses along the application pipeline. Terminal outcomes
// share the final stage.
var stage = map[Status]int{
	StatusInterested: 0,
	StatusApplied:    1,
	StatusInterview:  2,
	StatusOffer:      3,
	StatusRejected:   4,
	StatusAccepted:   4,
	StatusDeclined:   4,
}

var validTransitions = map[Status][]Status{
	StatusInterested: {StatusApplied, StatusDeclined},
	StatusApplied:    {StatusInterview, StatusRejected, StatusDeclined},
	StatusInterview:  {StatusOffer, StatusRejected, StatusDeclined},
	StatusOffer:      {StatusAccepted, StatusRejected, StatusDeclined},
	StatusRejected:   {},
	StatusAccepted:   {},
	StatusDeclined:   {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := stage[st]; !ok {
		return "", fmt.Errorf("unknown application status: %q", s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := stage[s]
	return ok
}

// AtLeastApplied reports whether the application has been submitted,
// i.e. it sits at the applied stage or anywhere past it.
func (s Status) AtLeastApplied() bool {
	st, ok := stage[s]
	if !ok {
		return false
	}
	return st >= stage[StatusApplied]
}

// Active reports whether the application is submitted and still in play.
func (s Status) Active() bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer:
		return true
	default:
		return false
	}
}

func (s Status) Terminal() bool {
	switch s {
	case StatusRejected, StatusAccepted, StatusDeclined:
		return true
	default:
		return false
	}
}

func (s Status) CanTransitionTo(next Status) bool {
	allowed, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == next {
			return true
		}
	}
	return false
}
