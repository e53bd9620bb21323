package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/skillverse/internal/client"
)

var chatCmd = &cobra.Command{
	Use:     "chat",
	Short:   "Talk to the course assistant of a running server",
	Long:    `Reads one message per line from stdin and prints the assistant's reply. The whole conversation is sent as context with every message.`,
	Example: `skillverse chat --api http://localhost:3001`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		session := client.NewChatSession(client.NewHTTPTransport(apiURL), flagLogger())
		out := cmd.OutOrStdout()

		fmt.Fprint(out, "> ")
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if reply, ok := session.Submit(cmd.Context(), scanner.Text()); ok {
				fmt.Fprintln(out, reply.Text)
			}
			fmt.Fprint(out, "> ")
		}
		fmt.Fprintln(out)
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&apiURL, "api", "http://localhost:3001", "Base URL of the Skillverse API")
	rootCmd.AddCommand(chatCmd)
}
