// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfboot/tfboot/internal/meta"
)

const bashCompletionScript = `# bash completion for tfboot
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_tfboot()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "up down st completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--color -c --output -o --titles -t"

    # Determine if an optional RootDir (first non-flag after subcommand) has
		# already been provided
    local have_rootdir=0
    local idx=2
    while [[ $idx -lt ${#COMP_WORDS[@]} ]]; do
        local w=${COMP_WORDS[$idx]}
        if [[ $w != -* ]]; then
            have_rootdir=1
            break
        fi
        ((idx++))
    done

    case "$cmd" in
    up)
      local opts="$common --bucket-prefix --profile --region -r --table"
            ;;
        down)
      local opts="$common --force --profile --region -r"
            ;;
        st)
      local opts="$common --profile"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
        return 0
    fi

  # If current token starts with '-', or we've already consumed RootDir, offer flags
  if [[ "$cur" == -* || $have_rootdir -eq 1 ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  # Otherwise, we're on the (optional) RootDir positional — complete directories
  COMPREPLY=( $(compgen -o dirnames -- "$cur") )
  return 0
}

complete -F _tfboot tfboot
`

const zshCompletionScript = `#compdef tfboot

_tfboot() {
  local -a cmds
  cmds=(
    'up:create the remote state backend'
    'down:destroy the remote state backend'
    'st:report backend resource status'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'tfboot commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    up)
      _arguments -C \
        $common \
        '--bucket-prefix[state bucket name prefix]:prefix' \
        '--profile[AWS shared config profile]:profile' \
        '(-r --region)'{-r,--region}'[backend region]:region' \
        '--table[state lock table name]:table' \
        '::RootDir:_directories'
      ;;
    down)
      _arguments -C \
        $common \
        '--force[skip the interactive confirmation]' \
        '--profile[AWS shared config profile]:profile' \
        '(-r --region)'{-r,--region}'[backend region]:region' \
        '::RootDir:_directories'
      ;;
    st)
      _arguments -C \
        $common \
        '--profile[AWS shared config profile]:profile' \
        '::RootDir:_directories'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common '*:directory:_directories'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _tfboot tfboot tfboot
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(os.Stdout, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(os.Stdout, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: tfboot completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "tfboot completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": m,
		},
		Action: completionCommandAction,
	}
}
