package archive

import (
	"encoding/json"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"

	"github.com/instalens/instalens/internal/errors"
	"github.com/instalens/instalens/internal/model"
)

// Export is the result of ingesting one archive or conversation file:
// every one-to-one conversation found, already normalized.
type Export struct {
	Owner          string
	Fingerprint    string
	Conversations  []*model.Conversation
	SkippedRecords int
	SkippedGroups  int
}

// RelationshipID derives a stable identifier for the (owner, other) pair.
func RelationshipID(owner, other string) string {
	return strconv.FormatUint(xxhash.Sum64String(owner+"\x00"+other), 16)
}

// LoadZip reads an Instagram export archive without extracting it, locates
// messages/inbox chat folders and builds a Conversation per one-to-one chat.
// Group chats are skipped here so the analyzer only ever sees two-party
// input. Malformed individual records are logged and dropped; a conversation
// survives as long as any of its records parse.
func LoadZip(zipPath, owner string) (*Export, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, errors.ErrInvalidExport.Wrap(err)
	}
	defer r.Close()

	// Group message files by the chat folder following the inbox segment.
	folders := make(map[string][]*zip.File)
	var folderOrder []string
	for _, f := range r.File {
		if !strings.Contains(f.Name, "inbox/") {
			continue
		}
		parts := strings.Split(path.Clean(f.Name), "/")
		idx := -1
		for i, seg := range parts {
			if seg == "inbox" {
				idx = i
				break
			}
		}
		if idx < 0 || idx+2 >= len(parts) {
			continue
		}
		folder := parts[idx+1]
		base := parts[len(parts)-1]
		if !strings.HasPrefix(base, "message_") || !strings.HasSuffix(base, ".json") {
			continue
		}
		if _, seen := folders[folder]; !seen {
			folderOrder = append(folderOrder, folder)
		}
		folders[folder] = append(folders[folder], f)
	}

	if len(folders) == 0 {
		return nil, errors.ErrInvalidExport
	}
	sort.Strings(folderOrder)

	export := &Export{Owner: owner}
	seenOthers := make(map[string]struct{})
	for _, folder := range folderOrder {
		files := folders[folder]
		sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

		conv, skipped, err := loadFolder(files, owner, folder)
		export.SkippedRecords += skipped
		if err != nil {
			log.Debug().Err(err).Str("folder", folder).Msg("skipping chat folder")
			continue
		}
		if conv == nil {
			export.SkippedGroups++
			continue
		}
		if _, dup := seenOthers[conv.Other]; dup {
			continue
		}
		seenOthers[conv.Other] = struct{}{}
		export.Conversations = append(export.Conversations, conv)
	}

	fp, err := fingerprintZip(r.File)
	if err == nil {
		export.Fingerprint = fp
	}

	log.Info().
		Int("conversations", len(export.Conversations)).
		Int("skipped_groups", export.SkippedGroups).
		Int("skipped_records", export.SkippedRecords).
		Msg("export loaded")

	return export, nil
}

// LoadConversationFile ingests a single conversation JSON uploaded directly.
func LoadConversationFile(jsonPath, owner string) (*Export, error) {
	f, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.ErrInvalidExport.Wrap(err)
	}
	defer f.Close()

	conv, skipped, err := parseChatStream(f, owner, "direct_upload", 1)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errors.ErrInvalidExport
	}
	return &Export{
		Owner:          owner,
		Conversations:  []*model.Conversation{conv},
		SkippedRecords: skipped,
	}, nil
}

// loadFolder merges all message_N.json files of one chat folder. Returns
// (nil, _, nil) for group chats.
func loadFolder(files []*zip.File, owner, folder string) (*model.Conversation, int, error) {
	var conv *model.Conversation
	skipped := 0
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			return nil, skipped, errors.MalformedRecord(err)
		}
		part, partSkipped, perr := parseChatStream(rc, owner, folder, len(files))
		rc.Close()
		skipped += partSkipped
		if perr != nil {
			log.Debug().Err(perr).Str("file", f.Name).Msg("skipping malformed message file")
			continue
		}
		if part == nil {
			// Group chat; the whole folder is out of scope.
			return nil, skipped, nil
		}
		if conv == nil {
			conv = part
		} else {
			conv.Messages = append(conv.Messages, part.Messages...)
		}
	}
	if conv == nil {
		return nil, skipped, errors.ErrInvalidExport
	}
	return conv, skipped, nil
}

// parseChatStream decodes one chat JSON document. Returns (nil, 0, nil) when
// the chat has a participant count other than two.
func parseChatStream(r io.Reader, owner, folder string, fileCount int) (*model.Conversation, int, error) {
	var chat chatFile
	if err := json.NewDecoder(r).Decode(&chat); err != nil {
		return nil, 0, errors.MalformedRecord(err)
	}
	if len(chat.Participants) != 2 {
		return nil, 0, nil
	}

	other := ""
	for _, p := range chat.Participants {
		if p.Name != owner && p.Name != "" {
			other = p.Name
			break
		}
	}
	if other == "" {
		// Both participants match the owner name; fall back to the folder.
		other = titleCase(strings.ReplaceAll(folder, "_", " "))
	}

	return buildConversation(chat, owner, other, folder, fileCount)
}

func titleCase(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = strings.ToUpper(f[:1]) + f[1:]
	}
	return strings.Join(fields, " ")
}

func buildConversation(chat chatFile, owner, other, folder string, fileCount int) (*model.Conversation, int, error) {
	conv := &model.Conversation{
		ID:     RelationshipID(owner, other),
		Owner:  owner,
		Other:  other,
		Folder: folder,
		Files:  fileCount,
	}
	skipped := 0
	for _, record := range chat.Messages {
		msg, err := Normalize(record)
		if err != nil {
			skipped++
			log.Debug().Err(err).Str("folder", folder).Msg("skipping malformed record")
			continue
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv, skipped, nil
}
