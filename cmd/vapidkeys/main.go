// Command vapidkeys prints a fresh VAPID key pair for web push.
package main

import (
	"fmt"
	"log"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		log.Fatal("Failed to generate VAPID keys:", err)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Printf("SNAPGRAM_PUSH_VAPID_PUBLIC_KEY=%s\n", publicKey)
	fmt.Printf("SNAPGRAM_PUSH_VAPID_PRIVATE_KEY=%s\n", privateKey)
	fmt.Println("SNAPGRAM_PUSH_SUBSCRIBER=mailto:admin@snapgram.local")
}
