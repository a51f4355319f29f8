// blogctl seeds, clears and verifies a blog-server deployment.
//
// It talks to the store named by TEST_DATABASE_URL directly. seed, teardown and verify
// create and delete posts, so never point it at a database you want to keep.
package main

import "github.com/information-sharing-networks/blog-demo/internal/cli"

func main() {
	cli.Execute()
}
