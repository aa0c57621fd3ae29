package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/austinorth/secret-santa/internal/crypto"
)

const (
	// DefaultFile is the vault filename used when none is given.
	DefaultFile = ".santa.vault"

	passwordCheckString = "secret-santa-password-check"
)

// Bucket names
var (
	configBucket  = []byte("config")  // KDF params, timestamps, vault ID - unencrypted
	statusBucket  = []byte("status")  // last build facts - unencrypted
	reportBucket  = []byte("report")  // encrypted secrets + roster snapshot
	privateBucket = []byte("private") // encrypted password checksum
)

// Config keys
var (
	keyVersion  = []byte("version")
	keyCreated  = []byte("created")
	keyModified = []byte("modified")
	keySalt     = []byte("salt")
	keyIters    = []byte("iterations")
	keyVaultID  = []byte("vault_id")
)

// Status keys
var (
	keyArtifactPath = []byte("artifact_path")
	keyParticipants = []byte("participant_count")
	keyBuiltAt      = []byte("built_at")
	keyRosterHash   = []byte("roster_hash")
)

// Report keys
var (
	keySecrets = []byte("secrets")
	keyRoster  = []byte("roster")
)

var (
	ErrNotInitialized = errors.New("vault not initialized")
	ErrAlreadyExists  = errors.New("vault already exists")
	ErrWrongPassword  = errors.New("wrong password")
	ErrNoRun          = errors.New("no build stored in vault")
)

// Vault is an open vault file. Callers must Close it.
type Vault struct {
	path string
	db   *bolt.DB
}

// Run is what one successful build leaves behind for the organizer.
type Run struct {
	ArtifactPath string
	BuiltAt      time.Time
	Secrets      map[string]string
	RosterCSV    []byte
}

// Status is the non-sensitive view of the vault, readable without a password.
type Status struct {
	Created          time.Time
	Modified         time.Time
	KDFIterations    uint32
	HasRun           bool
	ArtifactPath     string
	ParticipantCount int
	BuiltAt          time.Time
	RosterHash       string
}

// Create initializes a new vault file protected by password. The file must
// not already exist.
func Create(path string, password []byte) (*Vault, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, ErrAlreadyExists
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}
	v := &Vault{path: path, db: db}

	kdf, err := crypto.NewKDF()
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create KDF: %w", err)
	}

	key := kdf.DeriveKey(password)
	defer crypto.ClearBytes(key)
	enc := crypto.NewEncryptor(key)
	defer enc.Destroy()

	checksum := sha256.Sum256([]byte(passwordCheckString))
	checksumData, err := enc.Encrypt([]byte(hex.EncodeToString(checksum[:])))
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to encrypt checksum: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{configBucket, statusBucket, reportBucket, privateBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(configBucket)
		if err := config.Put(keyVersion, []byte("1")); err != nil {
			return err
		}

		now, _ := time.Now().MarshalBinary()
		if err := config.Put(keyCreated, now); err != nil {
			return err
		}
		if err := config.Put(keyModified, now); err != nil {
			return err
		}

		if err := config.Put(keySalt, kdf.Salt); err != nil {
			return err
		}
		iters := make([]byte, 4)
		binary.BigEndian.PutUint32(iters, uint32(kdf.Iterations))
		if err := config.Put(keyIters, iters); err != nil {
			return err
		}

		return tx.Bucket(privateBucket).Put([]byte("checksum"), checksumData)
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to initialize vault: %w", err)
	}

	return v, nil
}

// Open opens an existing vault file.
func Open(path string) (*Vault, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, ErrNotInitialized
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	v := &Vault{path: path, db: db}

	var initialized bool
	err = db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		initialized = config != nil && config.Get(keyVersion) != nil
		return nil
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}
	if !initialized {
		v.Close()
		return nil, ErrNotInitialized
	}

	return v, nil
}

// Close closes the vault file.
func (v *Vault) Close() error {
	return v.db.Close()
}

// Path returns the vault file location.
func (v *Vault) Path() string {
	return v.path
}

// unlock derives the session key from password and verifies it against the
// stored checksum. Every failure reads as a wrong password; the checksum is
// the only thing tried.
func (v *Vault) unlock(password []byte) (*crypto.Encryptor, error) {
	var salt, checksumData []byte
	var iterations uint32

	err := v.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		if config == nil {
			return ErrNotInitialized
		}
		salt = config.Get(keySalt)
		iters := config.Get(keyIters)
		if salt == nil || len(iters) != 4 {
			return ErrNotInitialized
		}
		// Copies: the slices are only valid during the transaction
		salt = append([]byte(nil), salt...)
		iterations = binary.BigEndian.Uint32(iters)

		private := tx.Bucket(privateBucket)
		if private == nil {
			return ErrNotInitialized
		}
		checksumData = append([]byte(nil), private.Get([]byte("checksum"))...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	kdf := &crypto.KDF{Salt: salt, Iterations: int(iterations)}
	key := kdf.DeriveKey(password)
	enc := crypto.NewEncryptor(key)

	plaintext, err := enc.Decrypt(checksumData)
	if err != nil {
		enc.Destroy()
		return nil, ErrWrongPassword
	}
	checksum := sha256.Sum256([]byte(passwordCheckString))
	if string(plaintext) != hex.EncodeToString(checksum[:]) {
		enc.Destroy()
		return nil, ErrWrongPassword
	}

	return enc, nil
}

// StoreRun replaces the stored report with the given run. The previous run,
// if any, is overwritten; the vault only ever describes the latest build.
func (v *Vault) StoreRun(password []byte, run *Run) error {
	enc, err := v.unlock(password)
	if err != nil {
		return err
	}
	defer enc.Destroy()

	secretsJSON, err := json.Marshal(run.Secrets)
	if err != nil {
		return fmt.Errorf("failed to marshal secrets: %w", err)
	}
	encSecrets, err := enc.Encrypt(secretsJSON)
	crypto.ClearBytes(secretsJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt secrets: %w", err)
	}

	encRoster, err := enc.Encrypt(run.RosterCSV)
	if err != nil {
		return fmt.Errorf("failed to encrypt roster: %w", err)
	}

	rosterHash := sha256.Sum256(run.RosterCSV)
	builtAt, _ := run.BuiltAt.MarshalBinary()
	modified, _ := time.Now().MarshalBinary()

	return v.db.Update(func(tx *bolt.Tx) error {
		report := tx.Bucket(reportBucket)
		if err := report.Put(keySecrets, encSecrets); err != nil {
			return err
		}
		if err := report.Put(keyRoster, encRoster); err != nil {
			return err
		}

		status := tx.Bucket(statusBucket)
		if err := status.Put(keyArtifactPath, []byte(run.ArtifactPath)); err != nil {
			return err
		}
		if err := status.Put(keyParticipants, []byte(strconv.Itoa(len(run.Secrets)))); err != nil {
			return err
		}
		if err := status.Put(keyBuiltAt, builtAt); err != nil {
			return err
		}
		if err := status.Put(keyRosterHash, []byte(hex.EncodeToString(rosterHash[:]))); err != nil {
			return err
		}

		return tx.Bucket(configBucket).Put(keyModified, modified)
	})
}

// Secrets decrypts the stored name to secret report.
func (v *Vault) Secrets(password []byte) (map[string]string, error) {
	enc, err := v.unlock(password)
	if err != nil {
		return nil, err
	}
	defer enc.Destroy()

	data, err := v.reportValue(keySecrets)
	if err != nil {
		return nil, err
	}
	plaintext, err := enc.Decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secrets: %w", err)
	}
	defer crypto.ClearBytes(plaintext)

	var secrets map[string]string
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal secrets: %w", err)
	}
	return secrets, nil
}

// Roster decrypts the roster snapshot stored at the last build.
func (v *Vault) Roster(password []byte) ([]byte, error) {
	enc, err := v.unlock(password)
	if err != nil {
		return nil, err
	}
	defer enc.Destroy()

	data, err := v.reportValue(keyRoster)
	if err != nil {
		return nil, err
	}
	plaintext, err := enc.Decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt roster: %w", err)
	}
	return plaintext, nil
}

func (v *Vault) reportValue(key []byte) ([]byte, error) {
	var data []byte
	err := v.db.View(func(tx *bolt.Tx) error {
		report := tx.Bucket(reportBucket)
		if report == nil {
			return ErrNoRun
		}
		value := report.Get(key)
		if value == nil {
			return ErrNoRun
		}
		data = append([]byte(nil), value...)
		return nil
	})
	return data, err
}

// Status reads the vault's non-sensitive metadata. No password required.
func (v *Vault) Status() (*Status, error) {
	status := &Status{}
	err := v.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		if config == nil {
			return ErrNotInitialized
		}
		if data := config.Get(keyCreated); data != nil {
			_ = status.Created.UnmarshalBinary(data)
		}
		if data := config.Get(keyModified); data != nil {
			_ = status.Modified.UnmarshalBinary(data)
		}
		if iters := config.Get(keyIters); len(iters) == 4 {
			status.KDFIterations = binary.BigEndian.Uint32(iters)
		}

		sb := tx.Bucket(statusBucket)
		if sb == nil {
			return nil
		}
		if data := sb.Get(keyBuiltAt); data != nil {
			status.HasRun = true
			_ = status.BuiltAt.UnmarshalBinary(data)
		}
		status.ArtifactPath = string(sb.Get(keyArtifactPath))
		if data := sb.Get(keyParticipants); data != nil {
			status.ParticipantCount, _ = strconv.Atoi(string(data))
		}
		status.RosterHash = string(sb.Get(keyRosterHash))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// VerifyPassword checks the password against the stored checksum.
func (v *Vault) VerifyPassword(password []byte) error {
	enc, err := v.unlock(password)
	if err != nil {
		return err
	}
	enc.Destroy()
	return nil
}

// VaultID returns the stored keyring identifier, or "" when none has been
// created yet.
func (v *Vault) VaultID() (string, error) {
	var vaultID string
	err := v.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		if config == nil {
			return ErrNotInitialized
		}
		vaultID = string(config.Get(keyVaultID))
		return nil
	})
	return vaultID, err
}

// GetOrCreateVaultID returns the stable identifier used to key OS keyring
// entries, generating and storing one on first use.
func (v *Vault) GetOrCreateVaultID() (string, error) {
	vaultID, err := v.VaultID()
	if err != nil {
		return "", err
	}
	if vaultID != "" {
		return vaultID, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate vault ID: %w", err)
	}
	vaultID = hex.EncodeToString(b)

	err = v.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(configBucket).Put(keyVaultID, []byte(vaultID))
	})
	if err != nil {
		return "", err
	}
	return vaultID, nil
}
