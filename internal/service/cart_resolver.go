package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/repository"

	"github.com/google/uuid"
)

const maxSessionKeyLength = 64

// Identity 购物车归属身份，UserID 非 0 时优先
type Identity struct {
	UserID     uint
	SessionKey string
}

// IsGuest 是否访客身份
func (i Identity) IsGuest() bool {
	return i.UserID == 0
}

// Resolution 购物车解析结果
type Resolution struct {
	Cart       *models.Cart
	SessionKey string
	Minted     bool // 本次新签发了访客会话标识
}

// CartResolver 将身份映射到唯一购物车，不存在时创建
type CartResolver struct {
	cartRepo repository.CartRepository
}

// NewCartResolver 创建购物车解析器
func NewCartResolver(cartRepo repository.CartRepository) *CartResolver {
	return &CartResolver{cartRepo: cartRepo}
}

// Resolve 查找或创建购物车
func (r *CartResolver) Resolve(ctx context.Context, identity Identity) (*Resolution, error) {
	if identity.UserID != 0 {
		cart, err := r.resolveUser(identity.UserID)
		if err != nil {
			return nil, err
		}
		return &Resolution{Cart: cart}, nil
	}

	sessionKey := normalizeSessionKey(identity.SessionKey)
	minted := false
	if sessionKey == "" {
		sessionKey = uuid.NewString()
		minted = true
	}
	cart, err := r.resolveSession(sessionKey)
	if err != nil {
		return nil, err
	}
	if minted {
		logger.SW("cart_id", cart.ID).Debugw("cart_session_minted")
	}
	return &Resolution{Cart: cart, SessionKey: sessionKey, Minted: minted}, nil
}

func (r *CartResolver) resolveUser(userID uint) (*models.Cart, error) {
	cart, err := r.cartRepo.GetByUserID(userID)
	if err != nil || cart != nil {
		return cart, err
	}
	uid := userID
	if err := r.cartRepo.CreateIfAbsent(&models.Cart{UserID: &uid}); err != nil {
		return nil, err
	}
	// 并发首次请求可能由另一方插入，统一以重新读取的结果为准
	cart, err = r.cartRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart not found after create")
	}
	return cart, nil
}

func (r *CartResolver) resolveSession(sessionKey string) (*models.Cart, error) {
	cart, err := r.cartRepo.GetBySessionKey(sessionKey)
	if err != nil || cart != nil {
		return cart, err
	}
	key := sessionKey
	if err := r.cartRepo.CreateIfAbsent(&models.Cart{SessionKey: &key}); err != nil {
		return nil, err
	}
	cart, err = r.cartRepo.GetBySessionKey(sessionKey)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("cart not found after create")
	}
	return cart, nil
}

func normalizeSessionKey(raw string) string {
	key := strings.TrimSpace(raw)
	if key == "" || len(key) > maxSessionKeyLength {
		return ""
	}
	return key
}
