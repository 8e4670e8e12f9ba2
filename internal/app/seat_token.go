package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"

	"bridge/internal/domain"
)

var ErrInvalidSeatToken = errors.New("invalid seat token")

// SeatTokenService issues and checks signed seat reservations so a player
// can be sent to a specific seat of a specific match.
type SeatTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
}

func NewSeatTokenService(secret, issuer string, ttl time.Duration) *SeatTokenService {
	return &SeatTokenService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}
}

func (s *SeatTokenService) GenerateToken(userID, matchID string, seat domain.Seat) (string, error) {
	if s == nil {
		return "", fmt.Errorf("seat token service is nil")
	}
	if userID == "" || matchID == "" {
		return "", fmt.Errorf("user and match are required")
	}
	if !seat.Valid() {
		return "", fmt.Errorf("seat %d is not a table seat", seat)
	}
	if s.secret == "" || s.issuer == "" || s.ttl <= 0 {
		return "", fmt.Errorf("seat token config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  userID,
		"mid":  matchID,
		"seat": seat.String(),
		"exp":  time.Now().Add(s.ttl).Unix(),
		"jti":  fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken returns the seat reserved by tokenString for userID in matchID.
func (s *SeatTokenService) VerifyToken(tokenString, userID, matchID string) (domain.Seat, error) {
	if s == nil || s.secret == "" {
		return domain.NoSeat, fmt.Errorf("seat tokens are not enabled")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return domain.NoSeat, fmt.Errorf("%w: %v", ErrInvalidSeatToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return domain.NoSeat, ErrInvalidSeatToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return domain.NoSeat, fmt.Errorf("%w: issuer", ErrInvalidSeatToken)
	}
	if sub, _ := claims["sub"].(string); sub != userID {
		return domain.NoSeat, fmt.Errorf("%w: issued to another user", ErrInvalidSeatToken)
	}
	if mid, _ := claims["mid"].(string); mid != matchID {
		return domain.NoSeat, fmt.Errorf("%w: issued for another match", ErrInvalidSeatToken)
	}
	name, _ := claims["seat"].(string)
	seat, err := domain.ParseSeat(name)
	if err != nil {
		return domain.NoSeat, fmt.Errorf("%w: %v", ErrInvalidSeatToken, err)
	}
	return seat, nil
}
