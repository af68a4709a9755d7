package archive

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/model"
)

// participant mirrors one entry of the export's participants array.
type participant struct {
	Name string `json:"name"`
}

// chatFile is the envelope of one message_N.json inside an export. Messages
// stay loosely typed here; Normalize turns them into canonical records one
// by one so a single malformed record never sinks the whole file.
type chatFile struct {
	Participants []participant            `json:"participants"`
	Messages     []map[string]interface{} `json:"messages"`
}

type rawShare struct {
	Link      string `mapstructure:"link"`
	ShareText string `mapstructure:"share_text"`
}

type rawMessage struct {
	SenderName  string        `mapstructure:"sender_name"`
	TimestampMs int64         `mapstructure:"timestamp_ms"`
	Content     string        `mapstructure:"content"`
	Share       *rawShare     `mapstructure:"share"`
	Photos      []interface{} `mapstructure:"photos"`
	Videos      []interface{} `mapstructure:"videos"`
}

// Normalize validates and shapes one loosely-typed export record into a
// canonical Message. Returns ErrMalformedRecord (wrapped) when the record
// cannot be decoded or misses required fields; callers log and skip.
func Normalize(record map[string]interface{}) (*model.Message, error) {
	var raw rawMessage
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &raw,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(record); err != nil {
		return nil, errors.MalformedRecord(err)
	}
	if raw.SenderName == "" {
		return nil, errors.MalformedRecord(fmt.Errorf("missing sender_name"))
	}
	if raw.TimestampMs < 0 {
		return nil, errors.MalformedRecord(fmt.Errorf("negative timestamp_ms %d", raw.TimestampMs))
	}

	msg := &model.Message{
		Sender:      raw.SenderName,
		TimestampMs: raw.TimestampMs,
		Content:     raw.Content,
		HasMedia:    len(raw.Photos) > 0 || len(raw.Videos) > 0,
	}
	if raw.Share != nil {
		msg.ShareLink = raw.Share.Link
	}
	return msg, nil
}
