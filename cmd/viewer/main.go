// Command viewer prints the persisted chat rooms as a table, opening the
// database read-only so it can run next to a live server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"mschat/repositories"
)

func main() {
	dbPath := flag.String("db", "/tmp/mschat", "Path to badger DB")
	prefix := flag.String("prefix", "room:", "Prefix to scan")
	flag.Parse()

	opts := badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Room", "Channel", "Messages", "Connected", "Banned", "Active Mutes", "Last Message"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	now := time.Now()
	rooms := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				var doc repositories.RoomDocument
				if err := json.Unmarshal(v, &doc); err != nil {
					// Log and keep scanning instead of stopping the whole dump
					fmt.Printf("Error unmarshaling key %s: %v\n", string(item.Key()), err)
					return nil
				}

				activeMutes := 0
				for _, mute := range doc.Muted {
					if time.UnixMilli(mute.ExpiresAt).After(now) {
						activeMutes++
					}
				}

				lastMessage := ""
				if len(doc.Messages) > 0 {
					lastMessage = doc.Messages[len(doc.Messages)-1].Content
					if len(lastMessage) > 40 {
						lastMessage = lastMessage[:40] + "..."
					}
				}

				banned := fmt.Sprintf("%d", len(doc.BannedUserIDs))
				if len(doc.BannedUserIDs) > 0 {
					banned = color.Red.Sprintf("%d", len(doc.BannedUserIDs))
				}
				mutes := fmt.Sprintf("%d", activeMutes)
				if activeMutes > 0 {
					mutes = color.Yellow.Sprintf("%d", activeMutes)
				}

				table.Append([]string{
					doc.ID,
					doc.ChannelID,
					fmt.Sprintf("%d", len(doc.Messages)),
					fmt.Sprintf("%d", len(doc.Participants)),
					banned,
					mutes,
					lastMessage,
				})
				rooms++
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	color.Green.Printf("\n%d room(s)\n", rooms)
}
