package device

import "github.com/spf13/cobra"

var DeviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Device registration and login",
}
