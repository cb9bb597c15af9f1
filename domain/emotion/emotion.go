// Package emotion defines the emotion label set and classification results.
package emotion

import "strings"

// Label is one of the emotion categories the classifier can output.
type Label string

const (
	Angry    Label = "angry"
	Disgust  Label = "disgust"
	Fear     Label = "fear"
	Happy    Label = "happy"
	Neutral  Label = "neutral"
	Sad      Label = "sad"
	Surprise Label = "surprise"
)

// NumLabels is the length of every distribution produced by a classifier.
const NumLabels = 7

// labelSet is ordered by model output index. It must match the order the
// wrapped model was trained with.
var labelSet = [NumLabels]Label{Angry, Disgust, Fear, Happy, Neutral, Sad, Surprise}

// Labels returns the label set in model output order.
func Labels() []Label {
	out := make([]Label, NumLabels)
	copy(out, labelSet[:])
	return out
}

// LabelAt returns the label for a model output index.
// Returns false if the index is out of range.
func LabelAt(i int) (Label, bool) {
	if i < 0 || i >= NumLabels {
		return "", false
	}
	return labelSet[i], true
}

// ParseLabel resolves a label name case-insensitively.
func ParseLabel(name string) (Label, bool) {
	l := Label(strings.ToLower(strings.TrimSpace(name)))
	if !l.Valid() {
		return "", false
	}
	return l, true
}

// Index returns the model output index of the label, or -1 if unknown.
func (l Label) Index() int {
	for i, known := range labelSet {
		if known == l {
			return i
		}
	}
	return -1
}

// Valid reports whether the label belongs to the label set.
func (l Label) Valid() bool {
	return l.Index() >= 0
}

// Title returns the label with its first letter upper-cased, e.g. "Happy".
func (l Label) Title() string {
	if l == "" {
		return ""
	}
	return strings.ToUpper(string(l[:1])) + string(l[1:])
}

// Upper returns the label in upper case, e.g. "HAPPY".
func (l Label) Upper() string {
	return strings.ToUpper(string(l))
}

func (l Label) String() string {
	return string(l)
}
