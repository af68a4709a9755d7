package analysis

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/model"
)

const millisPerDay = 86_400_000

// Options tunes the analyzer. The word-list size and the stopword set are
// configuration because the upstream implementations never agreed on them;
// the defaults below match the service-style implementation.
type Options struct {
	// TopWords is the size of each side's word-frequency list. Default 15.
	TopWords int
	// Stopwords replaces DefaultStopwords entirely when non-empty.
	Stopwords []string
	// ExtraStopwords is appended to the effective stopword list.
	ExtraStopwords []string
	// TopEmojis is the size of each side's emoji list. Default 10.
	TopEmojis int
	// Location controls hour-of-day and weekday bucketing. Default
	// time.Local.
	Location *time.Location
}

func (o Options) withDefaults() Options {
	if o.TopWords <= 0 {
		o.TopWords = 15
	}
	if len(o.Stopwords) == 0 {
		o.Stopwords = DefaultStopwords
	}
	if o.TopEmojis <= 0 {
		o.TopEmojis = 10
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Analyzer computes per-relationship statistics from normalized
// conversations. It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	opts Options
}

func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts.withDefaults()}
}

// sideAccumulator collects one participant's raw material during the single
// pass over the message list.
type sideAccumulator struct {
	name       string
	messages   int
	plainText  []string
	emojis     []string
	shared     model.SharedContent
	timestamps []*model.Message
}

func (s *sideAccumulator) observe(m *model.Message, cat Category) {
	s.messages++
	if m.HasTimestamp() {
		s.timestamps = append(s.timestamps, m)
	}
	switch cat {
	case SystemEvent:
		// Excluded from textual and shared-content counts.
	case StoryReply:
		s.shared.StoryReplies++
	case SharedPost:
		s.shared.Posts++
	case SharedReel:
		s.shared.Reels++
	case SharedStory:
		s.shared.Stories++
	case ExternalLink:
		s.shared.OtherLinks++
	case PlainText:
		if m.Content != "" {
			s.plainText = append(s.plainText, m.Content)
			s.emojis = append(s.emojis, ExtractEmojis(m.Content)...)
		}
	}
}

// Analyze produces the full RelationshipAnalysis for a two-party
// conversation, attributing every message not sent by the owner to the
// other side. Fails with ErrNoMessages on an empty message list. The result
// is deterministic for identical input.
func (a *Analyzer) Analyze(conv *model.Conversation) (*model.RelationshipAnalysis, error) {
	if conv == nil || len(conv.Messages) == 0 {
		return nil, errors.ErrNoMessages
	}

	owner := &sideAccumulator{name: conv.Owner}
	other := &sideAccumulator{name: conv.Other}

	// Timestamped sequence for timing, gap and response analysis. Messages
	// without a timestamp stay in the volume counts only.
	timestamped := make([]*model.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		cat := Classify(m)
		if m.Sender == conv.Owner {
			owner.observe(m, cat)
		} else {
			other.observe(m, cat)
		}
		if m.HasTimestamp() {
			timestamped = append(timestamped, m)
		}
	}
	sort.SliceStable(timestamped, func(i, j int) bool {
		return timestamped[i].TimestampMs < timestamped[j].TimestampMs
	})

	total := owner.messages + other.messages
	out := &model.RelationshipAnalysis{
		RelationshipID: conv.ID,
		Owner:          conv.Owner,
		Other:          conv.Other,
		TotalMessages:  total,
	}
	if total > 0 {
		out.OwnerStats.Percentage = float64(owner.messages) / float64(total) * 100
		out.OtherStats.Percentage = float64(other.messages) / float64(total) * 100
	}
	out.OwnerStats.Messages = owner.messages
	out.OtherStats.Messages = other.messages

	if len(timestamped) > 0 {
		first := timestamped[0].Time()
		last := timestamped[len(timestamped)-1].Time()
		out.FirstMessage = &first
		out.LastMessage = &last
		if span := timestamped[len(timestamped)-1].TimestampMs - timestamped[0].TimestampMs; span > 0 {
			out.DurationDays = float64(span) / millisPerDay
			out.MessagesPerDay = float64(total) / out.DurationDays
		}
	}

	responses, gaps := scanSequence(timestamped)
	var ownerResponses, otherResponses []float64
	for _, r := range responses {
		if r.responder == conv.Owner {
			ownerResponses = append(ownerResponses, r.seconds)
		} else {
			otherResponses = append(otherResponses, r.seconds)
		}
	}
	out.Gaps = gaps
	out.GapCount = len(gaps)
	out.OwnerStats.Response = responseStats(ownerResponses)
	out.OtherStats.Response = responseStats(otherResponses)

	ownerStop := stopwordSet(a.opts.Stopwords, a.opts.ExtraStopwords, conv.Owner)
	otherStop := stopwordSet(a.opts.Stopwords, a.opts.ExtraStopwords, conv.Other)
	out.OwnerStats.Words = topWords(owner.plainText, ownerStop, a.opts.TopWords)
	out.OtherStats.Words = topWords(other.plainText, otherStop, a.opts.TopWords)

	out.OwnerStats.Lengths = lengthStats(owner.plainText)
	out.OtherStats.Lengths = lengthStats(other.plainText)

	out.OwnerStats.Timing = timingStats(owner.timestamps, a.opts.Location)
	out.OtherStats.Timing = timingStats(other.timestamps, a.opts.Location)

	owner.shared.Total = sharedTotal(owner.shared)
	other.shared.Total = sharedTotal(other.shared)
	out.OwnerStats.Shared = owner.shared
	out.OtherStats.Shared = other.shared

	out.OwnerStats.Emojis = emojiStats(owner.emojis, a.opts.TopEmojis)
	out.OtherStats.Emojis = emojiStats(other.emojis, a.opts.TopEmojis)

	out.Intensity = intensityScore(
		total,
		out.OwnerStats.Percentage,
		out.OwnerStats.Response.AvgSeconds,
		out.OtherStats.Response.AvgSeconds,
		out.OwnerStats.Response.Count > 0,
		out.OtherStats.Response.Count > 0,
		out.GapCount,
	)
	out.Rating = rating(out.Intensity)

	return out, nil
}

func lengthStats(contents []string) model.LengthStats {
	if len(contents) == 0 {
		return model.LengthStats{}
	}
	sum, longest := 0, 0
	for _, c := range contents {
		n := utf8.RuneCountInString(c)
		sum += n
		if n > longest {
			longest = n
		}
	}
	return model.LengthStats{
		AvgLength: float64(sum) / float64(len(contents)),
		Longest:   longest,
	}
}

func sharedTotal(s model.SharedContent) int {
	return s.Posts + s.Reels + s.Stories + s.StoryReplies + s.OtherLinks
}
