// Command notify sends a push notification directly from the command line:
// to one user's devices, a list of users, every registered device, or a topic.
//
//	notify -user 1 -title "Welcome Back!" -body "Check out our new products!" -data type=welcome
//	notify -users 1,2,3 -title "Special Offer!" -body "50% off today!"
//	notify -broadcast -title "Maintenance" -body "Down from 2 AM to 4 AM."
//	notify -topic promotions -title "Flash Sale!" -body "24 hours only!"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/rawa7/hightech/internal/config"
	"github.com/rawa7/hightech/internal/database"
	"github.com/rawa7/hightech/internal/model"
	"github.com/rawa7/hightech/internal/repository"
	"github.com/rawa7/hightech/internal/service"
)

// dataFlags collects repeatable -data key=value pairs.
type dataFlags []string

func (d *dataFlags) String() string { return strings.Join(*d, ",") }

func (d *dataFlags) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*d = append(*d, value)
	return nil
}

func main() {
	var (
		userID    = flag.Int64("user", 0, "send to one user's devices")
		userIDs   = flag.String("users", "", "comma-separated user ids")
		broadcast = flag.Bool("broadcast", false, "send to every active device")
		topic     = flag.String("topic", "", "send to a broadcast topic")
		title     = flag.String("title", "", "notification title")
		body      = flag.String("body", "", "notification body")
		data      dataFlags
	)
	flag.Var(&data, "data", "custom data entry, key=value (repeatable)")
	flag.Parse()

	if *title == "" || *body == "" {
		log.Fatal("both -title and -body are required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.FCMProjectID == "" {
		log.Fatal("FCM_PROJECT_ID is not set")
	}

	payload := model.NewDataPayload()
	for _, entry := range data {
		kv := strings.SplitN(entry, "=", 2)
		payload.Set(kv[0], kv[1])
	}

	tokens := service.NewTokenSource(cfg.FCMCredentialsFile, cfg.OAuthTokenURL, cfg.ProviderTimeout)
	sender := service.NewFCMClient(cfg.FCMProjectID, cfg.FCMEndpoint, tokens, cfg.ProviderTimeout)
	ctx := context.Background()

	// Topic sends need no token lookup, so skip the database entirely.
	if *topic != "" {
		result := sender.SendToTopic(ctx, *topic, *title, *body, payload)
		printDelivery(fmt.Sprintf("topic %q", *topic), result)
		if !result.Success {
			os.Exit(1)
		}
		return
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	notifications := service.NewNotificationService(repository.NewDeviceTokenRepository(db), sender)

	switch {
	case *broadcast:
		result, err := notifications.Broadcast(ctx, *title, *body, payload)
		if err != nil {
			log.Fatalf("Broadcast failed: %v", err)
		}
		if result.NoActiveDevices {
			fmt.Println("Broadcast: no active devices")
			return
		}
		fmt.Printf("Broadcast to %d device(s): %d sent, %d failed\n",
			result.DevicesCount, result.SuccessCount, result.FailureCount)
		for _, d := range result.Results {
			printDelivery(fmt.Sprintf("user %d (%s)", d.UserID, d.DeviceType), d.Result)
		}

	case *userIDs != "":
		ids, err := parseUserIDs(*userIDs)
		if err != nil {
			log.Fatalf("Invalid -users value: %v", err)
		}
		results, err := notifications.SendToUsers(ctx, ids, *title, *body, payload)
		if err != nil {
			log.Fatalf("Send failed: %v", err)
		}
		for _, id := range ids {
			printUserResult(results[id])
		}

	case *userID != 0:
		result, err := notifications.SendToUser(ctx, *userID, *title, *body, payload)
		if err != nil {
			log.Fatalf("Send failed: %v", err)
		}
		printUserResult(result)

	default:
		log.Fatal("one of -user, -users, -broadcast or -topic is required")
	}
}

func parseUserIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printUserResult(result *model.UserDispatchResult) {
	if result.NoActiveDevices {
		fmt.Printf("User %d: no active devices\n", result.UserID)
		return
	}
	fmt.Printf("User %d: %d device(s)\n", result.UserID, result.DevicesCount)
	for _, d := range result.Results {
		printDelivery(d.DeviceType, d.Result)
	}
}

func printDelivery(target string, result model.DeliveryResult) {
	if result.Success {
		fmt.Printf("  %s: sent\n", target)
		return
	}
	if result.Error != "" {
		fmt.Printf("  %s: failed (%s)\n", target, result.Error)
		return
	}
	fmt.Printf("  %s: failed (status %d)\n", target, result.HTTPStatus)
}
