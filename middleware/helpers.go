package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/services"
	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
	jwtClaimTeamID = "team_id"
)

var errNoClaims = errors.New("user claims not found in context or invalid type")

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errNoClaims
	}
	return claims, nil
}

// intClaim принимает float64 (JSON числа) и строки.
func intClaim(claims jwt.MapClaims, name string) (int, bool, error) {
	raw, ok := claims[name]
	if !ok || raw == nil {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, true, fmt.Errorf("'%s' claim is not an integer: %f", name, v)
		}
		return int(v), true, nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, true, fmt.Errorf("invalid '%s' claim: %q", name, v)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("invalid type for '%s' claim: expected float64 or string, got %T", name, raw)
	}
}

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return 0, err
	}
	userID, present, err := intClaim(claims, jwtClaimUserID)
	if err != nil {
		return 0, err
	}
	if !present {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %d", jwtClaimUserID, userID)
	}
	return userID, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	roleStr, ok := claims[jwtClaimRole].(string)
	if !ok {
		return "", fmt.Errorf("missing or invalid '%s' claim in token", jwtClaimRole)
	}
	role := models.UserRole(roleStr)
	if !role.Valid() {
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
	return role, nil
}

// ActorFromContext собирает services.Actor из claims. Для анонимного запроса
// возвращает нулевой Actor без ошибки.
func ActorFromContext(ctx context.Context) (services.Actor, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return services.Actor{}, nil
	}
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return services.Actor{}, err
	}
	role, err := GetUserRoleFromContext(ctx)
	if err != nil {
		return services.Actor{}, err
	}

	actor := services.Actor{UserID: userID, Role: role}
	teamID, present, err := intClaim(claims, jwtClaimTeamID)
	if err != nil {
		return services.Actor{}, err
	}
	if present {
		actor.TeamID = &teamID
	}
	return actor, nil
}
