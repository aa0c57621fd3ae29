package cmd

import (
	"fmt"
	"os"

	"github.com/austinorth/secret-santa/internal/crypto"
	"github.com/austinorth/secret-santa/internal/keyring"
	"github.com/austinorth/secret-santa/internal/vault"
)

// KeyringSave saves the vault password to the OS keyring
func KeyringSave(vaultPath string) {
	v, err := vault.Open(vaultPath)
	if err != nil {
		HandleError(err)
	}
	defer v.Close()

	password, err := ReadPassword("Enter vault password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := v.VerifyPassword(password); err != nil {
		HandleError(err)
	}

	vaultID, err := v.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the vault password from the OS keyring
func KeyringDelete(vaultPath string) {
	v, err := vault.Open(vaultPath)
	if err != nil {
		HandleError(err)
	}
	defer v.Close()

	vaultID, err := v.VaultID()
	if err != nil || vaultID == "" {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a vault password is stored in the keyring
func KeyringStatus(vaultPath string) {
	v, err := vault.Open(vaultPath)
	if err != nil {
		HandleError(err)
	}
	defer v.Close()

	vaultID, err := v.VaultID()
	if err != nil || vaultID == "" {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(vaultID) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
