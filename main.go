package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/austinorth/secret-santa/cmd"
	"github.com/austinorth/secret-santa/internal/vault"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		runBuild(ctx, os.Args[2:])
	case "reveal":
		runReveal(ctx, os.Args[2:])
	case "secrets":
		runSecrets(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "words":
		runWords(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "version", "-v", "--version":
		cmd.Version()
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runBuild(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	words := fs.String("words", "", "Word list for secret generation")
	out := fs.String("out", "assignments.json", "Artifact output path")
	vaultPath := fs.String("vault", vault.DefaultFile, "Vault file")
	noVault := fs.Bool("no-vault", false, "Do not store the organizer report")
	show := fs.Bool("show", false, "Print plaintext pairings for verification")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if *words == "" {
		fmt.Fprintln(os.Stderr, "Error: --words is required")
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: santa build --words <file> [flags] <roster.csv>")
		os.Exit(1)
	}

	cmd.Build(ctx, fs.Arg(0), *words, *out, *vaultPath, !*noVault, *show)
}

func runReveal(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("reveal", flag.ExitOnError)
	secret := fs.String("secret", "", "Your secret (prompted when omitted)")
	name := fs.String("name", "", "Your name, for legacy 1.0 artifacts")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: santa reveal [--secret <secret>] [--name <name>] <artifact.json>")
		os.Exit(1)
	}

	cmd.Reveal(ctx, fs.Arg(0), *secret, *name)
}

func runSecrets(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("secrets", flag.ExitOnError)
	name := fs.String("name", "", "Print only this participant's secret")
	vaultPath := fs.String("vault", vault.DefaultFile, "Vault file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Secrets(ctx, *vaultPath, *name)
}

func runStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	vaultPath := fs.String("vault", vault.DefaultFile, "Vault file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	roster := ""
	if fs.NArg() > 0 {
		roster = fs.Arg(0)
	}

	cmd.Status(ctx, *vaultPath, roster)
}

func runDiff(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	vaultPath := fs.String("vault", vault.DefaultFile, "Vault file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: santa diff [--vault <file>] <roster.csv>")
		os.Exit(1)
	}

	cmd.Diff(ctx, *vaultPath, fs.Arg(0))
}

func runWords(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("words", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: santa words <file>")
		os.Exit(1)
	}

	cmd.Words(ctx, fs.Arg(0))
}

func runKeyring(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: santa keyring <save|delete|status> [--vault <file>]")
		os.Exit(1)
	}

	fs := flag.NewFlagSet("keyring", flag.ExitOnError)
	vaultPath := fs.String("vault", vault.DefaultFile, "Vault file")
	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave(*vaultPath)
	case "delete", "rm":
		cmd.KeyringDelete(*vaultPath)
	case "status":
		cmd.KeyringStatus(*vaultPath)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: santa completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("santa - Secret Santa pairing with per-person encrypted assignments")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  santa <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  build       Pair a roster and write the encrypted artifact")
	fmt.Println("  reveal      Decrypt your assignment from an artifact")
	fmt.Println("  secrets     Print the stored name-to-secret report")
	fmt.Println("  status      Show vault and artifact metadata")
	fmt.Println("  diff        Compare a roster against the stored snapshot")
	fmt.Println("  words       Lint a word list file")
	fmt.Println("  keyring     Manage the vault password in the OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  version     Show version")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  santa build --words words.txt participants.csv")
	fmt.Println("  santa reveal assignments.json")
	fmt.Println("  santa secrets --name alice")
	fmt.Println("  santa status participants.csv")
	fmt.Println()
	fmt.Println("Use 'santa help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "build":
		fmt.Println("santa build --words <file> [--out <file>] [--vault <file>] [--no-vault] [--show] <roster.csv>")
		fmt.Println()
		fmt.Println("Generates a secret per participant, pairs everyone, and writes the")
		fmt.Println("encrypted artifact. The roster is a CSV with NAME, BIO and SO columns;")
		fmt.Println("nobody is ever assigned themselves or their SO. Each assignment is")
		fmt.Println("encrypted under that giver's secret, so the artifact is safe to commit,")
		fmt.Println("email around, or host anywhere.")
		fmt.Println()
		fmt.Println("Unless --no-vault is given, the secrets and the roster snapshot are")
		fmt.Println("also stored in a password-protected vault so the organizer can")
		fmt.Println("re-print a lost secret later.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --words <file>   Word list for secret generation (required)")
		fmt.Println("  --out <file>     Artifact output path (default \"assignments.json\")")
		fmt.Println("  --vault <file>   Vault file (default \".santa.vault\")")
		fmt.Println("  --no-vault       Do not store the organizer report")
		fmt.Println("  --show           Print plaintext pairings for verification")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  santa build --words words.txt participants.csv")
		fmt.Println("  santa build --words words.txt --out 2026.json participants.csv")
		fmt.Println("  santa build --words words.txt --no-vault --show participants.csv")
	case "reveal":
		fmt.Println("santa reveal [--secret <secret>] [--name <name>] <artifact.json>")
		fmt.Println()
		fmt.Println("Decrypts your assignment from the artifact. Prompts for your secret")
		fmt.Println("unless --secret is given. A secret only ever unlocks its own")
		fmt.Println("assignment, so anyone can run this against the shared artifact.")
		fmt.Println()
		fmt.Println("Version 1.0 artifacts share one secret across the whole exchange,")
		fmt.Println("so --name is required there to pick your assignment.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --secret <secret>   Your secret (prompted when omitted)")
		fmt.Println("  --name <name>       Your name, for legacy 1.0 artifacts")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  santa reveal assignments.json")
		fmt.Println("  santa reveal --secret tinsel-frost-maple-4821 assignments.json")
	case "secrets":
		fmt.Println("santa secrets [--name <name>] [--vault <file>]")
		fmt.Println()
		fmt.Println("Prints the name-to-secret report stored at the last build.")
		fmt.Println("Requires the vault password. Useful when a participant loses")
		fmt.Println("their secret.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --name <name>    Print only this participant's secret")
		fmt.Println("  --vault <file>   Vault file (default \".santa.vault\")")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  santa secrets")
		fmt.Println("  santa secrets --name alice")
	case "status":
		fmt.Println("santa status [--vault <file>] [<roster.csv>]")
		fmt.Println()
		fmt.Println("Shows vault and artifact metadata:")
		fmt.Println("  - When the vault was created and last written")
		fmt.Println("  - Encryption details")
		fmt.Println("  - Last build time, participant count, and artifact path")
		fmt.Println()
		fmt.Println("When a roster path is given, also reports whether it has changed")
		fmt.Println("since the last build.")
		fmt.Println()
		fmt.Println("Does not require a password.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  santa status")
		fmt.Println("  santa status participants.csv")
	case "diff":
		fmt.Println("santa diff [--vault <file>] <roster.csv>")
		fmt.Println()
		fmt.Println("Compares a local roster against the snapshot stored at the last")
		fmt.Println("build. Shows a unified diff of any changes.")
		fmt.Println()
		fmt.Println("Requires the vault password.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  santa diff participants.csv")
	case "words":
		fmt.Println("santa words <file>")
		fmt.Println()
		fmt.Println("Lints a word list file. Reports the number of usable distinct words,")
		fmt.Println("ignored duplicates, and the approximate size of the secret space.")
		fmt.Println("Blank lines and lines starting with # are skipped.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  santa words words.txt")
	case "keyring":
		fmt.Println("santa keyring <save|delete|status> [--vault <file>]")
		fmt.Println()
		fmt.Println("Manages the vault password in the OS keyring. A saved password is")
		fmt.Println("used automatically by commands that need the vault.")
		fmt.Println()
		fmt.Println("Subcommands:")
		fmt.Println("  save     Verify and store the vault password")
		fmt.Println("  delete   Remove the stored password")
		fmt.Println("  status   Report whether a password is stored")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  santa keyring save")
		fmt.Println("  santa keyring status")
	case "completion":
		fmt.Println("santa completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(santa completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(santa completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  santa completion fish | source")
	case "version":
		fmt.Println("santa version")
		fmt.Println()
		fmt.Println("Prints the version banner.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
