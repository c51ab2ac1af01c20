package solution

// MatchInfo describes what triggered a transition.
type MatchInfo interface {
	Describe() string
}

// Match is an optional [MatchInfo]. The zero value holds nothing.
type Match struct {
	info MatchInfo
}

// SomeMatch wraps match info. A nil info gives an empty Match.
func SomeMatch(info MatchInfo) Match {
	return Match{info: info}
}

// Get returns the match info if there is any.
func (m Match) Get() (MatchInfo, bool) {
	return m.info, m.info != nil
}

// Describe returns the description of the match info or an empty string.
func (m Match) Describe() string {
	if m.info == nil {
		return ""
	}

	return m.info.Describe()
}

// Event is a [MatchInfo] given by a plain event name.
type Event string

// Describe implements [MatchInfo].
func (e Event) Describe() string {
	return string(e)
}
