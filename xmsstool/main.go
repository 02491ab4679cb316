package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/Kentzo/botan/xmss"
)

func cmdAlgs(c *cli.Context) error {
	for _, name := range xmss.ListNames() {
		ctx := xmss.NewContextFromName(name)
		fmt.Printf("%-20s sig=%db pk=%db sk=%db\n", ctx.Name(),
			ctx.SignatureSize(), ctx.PublicKeySize(), ctx.PrivateKeySize())
	}
	return nil
}

func cmdKeygen(c *cli.Context) error {
	ctx := xmss.NewContextFromName(c.String("alg"))
	if ctx == nil {
		return cli.NewExitError(fmt.Sprintf(
			"unknown algorithm %q; see the algs command", c.String("alg")), 1)
	}
	sk, pk, err := ctx.GenerateKeyPair(nil)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	skBytes, _ := sk.MarshalBinary()
	pkBytes, _ := pk.MarshalBinary()
	fmt.Printf("sk: %s\n", hex.EncodeToString(skBytes))
	fmt.Printf("pk: %s\n", hex.EncodeToString(pkBytes))
	return nil
}

func cmdSign(c *cli.Context) error {
	ctx := xmss.NewContextFromName(c.String("alg"))
	if ctx == nil {
		return cli.NewExitError(fmt.Sprintf(
			"unknown algorithm %q; see the algs command", c.String("alg")), 1)
	}
	rawSk, err := hex.DecodeString(c.String("key"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("--key: %v", err), 1)
	}
	sk, perr := ctx.ParsePrivateKey(rawSk)
	if perr != nil {
		return cli.NewExitError(perr.Error(), 1)
	}
	sig, serr := sk.Sign([]byte(c.Args().First()))
	if serr != nil {
		return cli.NewExitError(serr.Error(), 1)
	}
	sigBytes, _ := sig.MarshalBinary()
	fmt.Printf("sig: %s\n", hex.EncodeToString(sigBytes))

	// Persist leaf consumption: print the key with the new index.
	sk.UnusedLeafIndex()
	rawSk, _ = sk.MarshalBinary()
	fmt.Printf("sk:  %s\n", hex.EncodeToString(rawSk))
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "xmsstool"
	app.Usage = "Generate XMSS keypairs and sign messages"

	algFlag := cli.StringFlag{
		Name:  "alg",
		Value: "XMSS-SHA2_10_256",
		Usage: "name of the XMSS instance",
	}

	app.Commands = []cli.Command{
		{
			Name:   "algs",
			Usage:  "List XMSS instances",
			Action: cmdAlgs,
		},
		{
			Name:   "keygen",
			Usage:  "Generate an XMSS keypair",
			Flags:  []cli.Flag{algFlag},
			Action: cmdKeygen,
		},
		{
			Name:      "sign",
			Usage:     "Sign a message with a raw hex private key",
			ArgsUsage: "message",
			Flags: []cli.Flag{algFlag, cli.StringFlag{
				Name:  "key",
				Usage: "raw private key, hex encoded",
			}},
			Action: cmdSign,
		},
	}

	app.Run(os.Args)
}
