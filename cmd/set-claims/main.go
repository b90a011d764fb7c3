package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
)

func main() {
	uid := flag.String("uid", "", "target firebase uid")
	educator := flag.Bool("educator", false, "grant the educator claim")
	admin := flag.Bool("admin", false, "grant the admin claim")
	flag.Parse()
	if *uid == "" {
		log.Fatal("uid is required: -uid=xxxxx")
	}
	if !*educator && !*admin {
		log.Fatal("nothing to grant: pass -educator and/or -admin")
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil)
	if err != nil {
		log.Fatalf("firebase.NewApp: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("app.Auth: %v", err)
	}

	roles := []string{}
	claims := map[string]interface{}{}
	if *educator {
		claims["educator"] = true
		roles = append(roles, "educator")
	}
	if *admin {
		claims["admin"] = true
		roles = append(roles, "admin")
	}
	claims["roles"] = roles

	if err := authClient.SetCustomUserClaims(ctx, *uid, claims); err != nil {
		log.Fatalf("SetCustomUserClaims: %v", err)
	}

	fmt.Println("ok: claims set for", *uid, roles)
}
