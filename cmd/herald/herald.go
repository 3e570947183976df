// herald serves the personal assistant query API.
package main

import (
	"math/rand"
	"time"

	"github.com/kiosk404/herald/internal/herald"
	_ "go.uber.org/automaxprocs"
)

func main() {
	rand.New(rand.NewSource(time.Now().UTC().UnixNano()))

	herald.NewApp("herald").Run()
}
