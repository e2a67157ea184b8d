package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abdullahilyas48/ConvoHub/internal/api"
	"github.com/abdullahilyas48/ConvoHub/internal/session"
)

func roomsCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "list rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			rooms, err := client.ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range rooms {
				fmt.Printf("#%d  %s — %s (%d members, host %s)\n",
					r.ID, r.Name, r.Topic, len(r.Members), r.Host.Username)
			}
			return nil
		},
	}
	cmd.AddCommand(roomsCreateCmd(a), roomsSearchCmd(a))
	return cmd
}

func roomsCreateCmd(a **app) *cobra.Command {
	var req api.CreateRoomRequest
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create a room with you as host",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			room, err := client.CreateRoom(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Printf("created room #%d %s\n", room.ID, room.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "room name")
	cmd.Flags().StringVar(&req.Topic, "topic", "", "room topic")
	cmd.Flags().StringVar(&req.Description, "description", "", "room description")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func roomsSearchCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "search rooms by name or topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			results, err := client.SearchRooms(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("no rooms found")
				return nil
			}
			for _, r := range results {
				fmt.Printf("#%d  %s — %s (%d members, host %s)\n",
					r.RoomID, r.RoomName, r.Topic, r.MembersCount, r.Host)
			}
			return nil
		},
	}
}

func recentCmd(a **app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "show recent activity across all rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			acts, err := client.RecentActivities(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, act := range acts {
				fmt.Printf("[%s] %s: %s\n", act.Room.RoomName, act.User.Username, act.Content)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "max entries")
	return cmd
}

func joinCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <room-id>",
		Short: "join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid room id %q", args[0])
			}
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}
			if err := client.JoinRoom(cmd.Context(), roomID); err != nil {
				return err
			}
			if err := (*a).st.MarkJoined(roomID); err != nil {
				return err
			}
			fmt.Printf("joined room #%d\n", roomID)
			return nil
		},
	}
}

func chatCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <room-id>",
		Short: "open a room and chat live",
		Long:  "Opens the room view: history first, then the live stream. Type to send; Ctrl-D leaves.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid room id %q", args[0])
			}
			client, err := (*a).authedClient()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			profile, err := client.Profile(ctx)
			if err != nil {
				return err
			}

			sess := session.New(session.Params{
				RoomID: roomID,
				Viewer: profile.Username,
				Token:  client.Token(),
				WSBase: (*a).cfg.WSURL,
				API:    client,
				Store:  (*a).st,
				Log:    (*a).log,
			})
			defer sess.Close()

			if err := sess.Start(ctx); err != nil {
				return err
			}

			room := sess.Room()
			fmt.Printf("== %s — %s ==\n", room.Name, room.Topic)
			for _, m := range sess.Messages() {
				fmt.Printf("%s: %s\n", m.User.Username, m.Content)
			}
			if !sess.Joined() {
				fmt.Printf("you are not a member; run `convohub join %d` first\n", roomID)
				return nil
			}

			go func() {
				for ev := range sess.Events() {
					switch ev.Kind {
					case session.EventMessage:
						fmt.Printf("%s: %s\n", ev.Message.User.Username, ev.Message.Content)
					case session.EventConnError:
						fmt.Println("-- connection lost; re-open the room to reconnect --")
					}
				}
			}()

			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				text := scanner.Text()
				if err := sess.Send(ctx, text); err != nil {
					if err == session.ErrEmptyMessage {
						continue
					}
					return err
				}
			}
			return scanner.Err()
		},
	}
}
