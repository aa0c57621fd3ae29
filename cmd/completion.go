package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_santa() {
    local cur prev words cword
    _init_completion || return

    local commands="build reveal secrets status diff words keyring completion version help"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        build)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--words --out --vault --no-vault --show" -- "$cur"))
            else
                _filedir
            fi
            ;;
        reveal)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--secret --name" -- "$cur"))
            else
                _filedir
            fi
            ;;
        secrets)
            COMPREPLY=($(compgen -W "--name --vault" -- "$cur"))
            ;;
        status|diff)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--vault" -- "$cur"))
            else
                _filedir
            fi
            ;;
        words)
            _filedir
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _santa santa
`

const zshCompletion = `#compdef santa

_santa() {
    local -a commands
    commands=(
        'build:Pair a roster and write the encrypted artifact'
        'reveal:Decrypt your assignment from an artifact'
        'secrets:Print the stored name to secret report'
        'status:Show vault and artifact metadata'
        'diff:Compare local roster against the stored snapshot'
        'words:Lint a word list'
        'keyring:Manage the vault password in the OS keyring'
        'completion:Generate shell completions'
        'version:Show version'
        'help:Show help for a command'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'santa commands' commands
            ;;
        args)
            case "${words[2]}" in
                build)
                    _arguments \
                        '--words[Word list file]:file:_files' \
                        '--out[Artifact output path]:file:_files' \
                        '--vault[Vault file]:file:_files' \
                        '--no-vault[Skip storing the organizer report]' \
                        '--show[Print plaintext pairings for verification]' \
                        '*:roster:_files'
                    ;;
                reveal)
                    _arguments \
                        '--secret[Participant secret]:secret:' \
                        '--name[Giver name, for legacy artifacts]:name:' \
                        '*:artifact:_files'
                    ;;
                secrets)
                    _arguments \
                        '--name[Only this participant]:name:' \
                        '--vault[Vault file]:file:_files'
                    ;;
                status|diff)
                    _arguments \
                        '--vault[Vault file]:file:_files' \
                        '*:roster:_files'
                    ;;
                words)
                    _arguments '*:file:_files'
                    ;;
                keyring)
                    _values 'subcommand' save delete status
                    ;;
                help)
                    _describe -t commands 'santa commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_santa "$@"
`

const fishCompletion = `# santa fish completions

set -l commands build reveal secrets status diff words keyring completion version help

complete -c santa -f

# Commands
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a build -d 'Pair a roster and write the artifact'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a reveal -d 'Decrypt your assignment'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a secrets -d 'Print the stored secret report'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault and artifact metadata'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare roster against stored snapshot'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a words -d 'Lint a word list'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage password in OS keyring'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a version -d 'Show version'
complete -c santa -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'

# build flags and files
complete -c santa -n "__fish_seen_subcommand_from build" -l words -d 'Word list file' -F
complete -c santa -n "__fish_seen_subcommand_from build" -l out -d 'Artifact output path' -F
complete -c santa -n "__fish_seen_subcommand_from build" -l vault -d 'Vault file' -F
complete -c santa -n "__fish_seen_subcommand_from build" -l no-vault -d 'Skip the organizer report'
complete -c santa -n "__fish_seen_subcommand_from build" -l show -d 'Print plaintext pairings'
complete -c santa -n "__fish_seen_subcommand_from build" -F

# reveal flags
complete -c santa -n "__fish_seen_subcommand_from reveal" -l secret -d 'Participant secret'
complete -c santa -n "__fish_seen_subcommand_from reveal" -l name -d 'Giver name (legacy artifacts)'
complete -c santa -n "__fish_seen_subcommand_from reveal" -F

# secrets flags
complete -c santa -n "__fish_seen_subcommand_from secrets" -l name -d 'Only this participant'
complete -c santa -n "__fish_seen_subcommand_from secrets" -l vault -d 'Vault file' -F

# status and diff flags
complete -c santa -n "__fish_seen_subcommand_from status diff" -l vault -d 'Vault file' -F
complete -c santa -n "__fish_seen_subcommand_from status diff" -F

# keyring subcommands
complete -c santa -n "__fish_seen_subcommand_from keyring" -a "save delete status"

# help completions
complete -c santa -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c santa -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
