package identity

import "golang.org/x/crypto/bcrypt"

const DefaultHashCost = 10

// Hasher bcrypt 单向哈希：随机盐、可调工作因子
// 不记录、不持久化任何明文
type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify 用摘要内嵌的盐重新计算并常数时间比较
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

type HashResult struct {
	Digest string
	Err    error
}

// HashAsync 把 CPU 密集的哈希丢到独立 goroutine，调用方挂起而不阻塞其他请求
// 通道带缓冲：调用方超时放弃后计算仍会跑完，goroutine 不会泄漏
func (h *Hasher) HashAsync(plaintext string) <-chan HashResult {
	ch := make(chan HashResult, 1)
	go func() {
		digest, err := h.Hash(plaintext)
		ch <- HashResult{Digest: digest, Err: err}
	}()
	return ch
}

func (h *Hasher) VerifyAsync(plaintext, digest string) <-chan bool {
	ch := make(chan bool, 1)
	go func() {
		ch <- h.Verify(plaintext, digest)
	}()
	return ch
}
