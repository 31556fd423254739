package note

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"notas/internal/domain/note"
)

var attachDescription string

var AttachCmd = &cobra.Command{
	Use:   "attach <id> <uri>",
	Short: "Add an attachment to a note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}

		g, err := app.Repo.ByID(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, note.ErrNotFound) {
				return fmt.Errorf("note %s not found", args[0])
			}
			return fmt.Errorf("get note: %w", err)
		}

		uri := args[1]
		description := attachDescription
		if description == "" {
			description = filepath.Base(uri)
		}

		g.Attachments = append(g.Attachments, note.Attachment{
			NoteID:      g.Note.ID,
			Type:        attachmentTypeFor(uri),
			URI:         uri,
			Description: description,
		})

		if err := app.Repo.Save(cmd.Context(), g.Note, g.Attachments, g.Reminders); err != nil {
			return fmt.Errorf("save attachment: %w", err)
		}

		fmt.Printf("Attached %s to %s\n", uri, g.Note.ID)
		return nil
	},
}

// attachmentTypeFor guesses the attachment kind from the URI extension,
// defaulting to FILE.
func attachmentTypeFor(uri string) note.AttachmentType {
	switch strings.ToLower(filepath.Ext(uri)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return note.AttachmentImage
	case ".mp4", ".mov", ".avi", ".mkv", ".webm":
		return note.AttachmentVideo
	case ".mp3", ".wav", ".ogg", ".m4a", ".flac":
		return note.AttachmentAudio
	default:
		return note.AttachmentFile
	}
}

func init() {
	AttachCmd.Flags().StringVarP(&attachDescription, "description", "d", "", "attachment description")
}
