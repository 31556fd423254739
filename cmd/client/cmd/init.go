package cmd

import (
	"notas/cmd/client/cmd/agent"
	"notas/cmd/client/cmd/device"
	"notas/cmd/client/cmd/note"
	"notas/cmd/client/cmd/sync"
)

func init() {
	rootCmd.AddCommand(device.DeviceCmd)
	device.DeviceCmd.AddCommand(device.RegisterCmd)
	device.DeviceCmd.AddCommand(device.LoginCmd)

	rootCmd.AddCommand(note.NoteCmd)
	note.NoteCmd.AddCommand(note.CreateCmd)
	note.NoteCmd.AddCommand(note.ListCmd)
	note.NoteCmd.AddCommand(note.GetCmd)
	note.NoteCmd.AddCommand(note.SearchCmd)
	note.NoteCmd.AddCommand(note.DoneCmd)
	note.NoteCmd.AddCommand(note.AttachCmd)
	note.NoteCmd.AddCommand(note.DeleteCmd)

	rootCmd.AddCommand(sync.SyncCmd)
	rootCmd.AddCommand(agent.AgentCmd)
}
