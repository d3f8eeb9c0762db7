package provably

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
)

const (
	serverSeedBytes = 32
	clientSeedBytes = 16
)

// Seed - тройка сидов, из которой детерминированно выводится результат спина
type Seed struct {
	ServerSeed string
	ClientSeed string
	Nonce      uint64
}

// NewServerSeed генерирует секретный серверный сид (hex, 64 символа)
func NewServerSeed() (string, error) {
	return randomHex(serverSeedBytes)
}

// NewClientSeed генерирует клиентский сид, если игрок не прислал свой
func NewClientSeed() (string, error) {
	return randomHex(clientSeedBytes)
}

// HashServerSeed - публичный коммит серверного сида: hex(SHA-256(serverSeed))
func HashServerSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// VerifyCommitment проверяет, что раскрытый сид соответствует опубликованному хешу
func VerifyCommitment(serverSeed, serverSeedHash string) bool {
	got := HashServerSeed(serverSeed)
	return subtle.ConstantTimeCompare([]byte(got), []byte(serverSeedHash)) == 1
}

// DeriveBytes = HMAC-SHA256(key=serverSeed, "clientSeed:nonce:index")
func DeriveBytes(serverSeed, clientSeed string, nonce, index uint64) []byte {
	mac := hmac.New(sha256.New, []byte(serverSeed))
	mac.Write([]byte(clientSeed))
	mac.Write([]byte{':'})
	mac.Write([]byte(strconv.FormatUint(nonce, 10)))
	mac.Write([]byte{':'})
	mac.Write([]byte(strconv.FormatUint(index, 10)))
	return mac.Sum(nil)
}

// DeriveUint32 - первые 4 байта хеша как беззнаковое число (big-endian)
func DeriveUint32(serverSeed, clientSeed string, nonce, index uint64) uint32 {
	return binary.BigEndian.Uint32(DeriveBytes(serverSeed, clientSeed, nonce, index)[:4])
}

// Stream выдает значения по возрастающему индексу позиции.
// Каждое случайное решение в спине забирает ровно один индекс.
type Stream struct {
	seed  Seed
	index uint64
}

func NewStream(seed Seed) *Stream {
	return &Stream{seed: seed}
}

// Next возвращает значение для текущего индекса и сдвигает курсор
func (s *Stream) Next() uint32 {
	v := DeriveUint32(s.seed.ServerSeed, s.seed.ClientSeed, s.seed.Nonce, s.index)
	s.index++
	return v
}

// Index - сколько индексов уже израсходовано
func (s *Stream) Index() uint64 {
	return s.index
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("provably.randomHex: %w", err)
	}
	return hex.EncodeToString(b), nil
}
