// deploy publishes a compiled contract to one of the configured networks.
//
//	go run ./cmd/deploy --network localhost
//	go run ./cmd/deploy --network sepolia --artifact artifacts --contract Lock
package main

func main() {
	execute()
}
