package models

import "time"

// Label is the two-valued classification outcome
type Label string

const (
	Spam Label = "spam"
	Ham  Label = "ham"
)

// ParseLabel maps raw classifier output onto a Label. Only the exact string
// "spam" is spam; anything else is treated as ham.
func ParseLabel(raw string) Label {
	if raw == string(Spam) {
		return Spam
	}
	return Ham
}

// Verdict returns the human-readable sentence shown on the result page
func (l Label) Verdict() string {
	if l == Spam {
		return "This message is Spam! 😠"
	}
	return "This message is not Spam. ✅"
}

// PredictRequest is the body of POST /predict. The form tag lets the
// landing page submit a plain HTML form.
type PredictRequest struct {
	Message string `json:"message" form:"message"`
}

// Prediction is the response of POST /predict
type Prediction struct {
	Prediction Label  `json:"prediction"`
	Message    string `json:"message"`
	Error      bool   `json:"error"`
}

// FeedbackRequest is the body of POST /feedback
type FeedbackRequest struct {
	Message        string `json:"message"`
	ToolPrediction string `json:"toolPrediction"`
	CorrectLabel   string `json:"correctLabel"`
}

// FeedbackRecord is a user correction as persisted to the feedback store
type FeedbackRecord struct {
	Message        string    `json:"message" firestore:"message"`
	ToolPrediction string    `json:"toolPrediction" firestore:"toolPrediction"`
	CorrectLabel   string    `json:"correctLabel" firestore:"correctLabel"`
	Timestamp      time.Time `json:"timestamp" firestore:"timestamp"`
	AppID          string    `json:"appId" firestore:"appId"`
}

// FeedbackResponse is the response of POST /feedback
type FeedbackResponse struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}
