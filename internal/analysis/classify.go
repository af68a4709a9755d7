package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"

	"github.com/instalens/instalens/internal/model"
)

// Category is the outcome of classifying one message's content.
type Category int

const (
	PlainText Category = iota
	SystemEvent
	SharedPost
	SharedReel
	SharedStory
	StoryReply
	ExternalLink
)

func (c Category) String() string {
	switch c {
	case SystemEvent:
		return "system_event"
	case SharedPost:
		return "shared_post"
	case SharedReel:
		return "shared_reel"
	case SharedStory:
		return "shared_story"
	case StoryReply:
		return "story_reply"
	case ExternalLink:
		return "external_link"
	default:
		return "plain_text"
	}
}

// Placeholder phrases Instagram substitutes for media and call events.
// Matching any of these makes the message a SystemEvent, excluded from all
// textual and shared-content counts.
var placeholderPhrases = []string{
	"sent a photo",
	"sent a video",
	"sent a reel",
	"sent an attachment",
	"you sent an attachment",
	"unsent a message",
	"you unsent a message",
	"reacted to",
	"video call",
	"missed video call",
	"this message is no longer available",
	"sent a voice message",
	"sent a sticker",
	"sent a gif",
}

var storyReplyMarkers = []string{
	"replied to your story",
	"replied to story",
	"sent a story reply",
}

// Classify categorizes a message by an ordered rule set, first match wins:
//
//  1. placeholder/system phrase -> SystemEvent
//  2. story-reply marker, or attachment metadata with near-empty text
//     (<=10 characters or a single emoji) -> StoryReply
//  3. structured share link, by URL shape -> SharedPost/SharedReel/
//     SharedStory/ExternalLink
//  4. text starting with an http(s) URL -> ExternalLink
//  5. otherwise -> PlainText
//
// Structured share metadata outranks raw-text URL sniffing because the
// export marks it explicitly; near-empty attachment messages are story
// replies in practice even when the platform does not label them.
func Classify(m *model.Message) Category {
	content := strings.TrimSpace(m.Content)
	lower := strings.ToLower(content)

	if content != "" {
		for _, phrase := range placeholderPhrases {
			if strings.Contains(lower, phrase) {
				return SystemEvent
			}
		}
	}

	for _, marker := range storyReplyMarkers {
		if strings.Contains(lower, marker) {
			return StoryReply
		}
	}
	if m.HasMedia && (utf8.RuneCountInString(content) <= 10 || isSingleEmoji(content)) {
		return StoryReply
	}

	if link := m.ShareLink; link != "" {
		switch {
		case strings.Contains(link, "instagram.com/p/") || strings.Contains(link, "ig.me/p/"):
			return SharedPost
		case strings.Contains(link, "instagram.com/reel/") || strings.Contains(link, "ig.me/reel/"):
			return SharedReel
		case strings.Contains(link, "instagram.com/stories/"):
			return SharedStory
		default:
			return ExternalLink
		}
	}

	if strings.HasPrefix(content, "http") {
		return ExternalLink
	}

	return PlainText
}

// ExtractEmojis returns every emoji occurrence in s, in order, as grapheme
// clusters so multi-codepoint emoji stay intact.
func ExtractEmojis(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		cluster := g.Str()
		if gomoji.ContainsEmoji(cluster) {
			out = append(out, cluster)
		}
	}
	return out
}

func isSingleEmoji(s string) bool {
	g := uniseg.NewGraphemes(s)
	clusters := 0
	for g.Next() {
		clusters++
		if clusters > 1 || !gomoji.ContainsEmoji(g.Str()) {
			return false
		}
	}
	return clusters == 1
}
