package handler

import (
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
)

type twoFactorVerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// Enable2FAHandler generates a TOTP secret for the user. The secret only
// takes effect once a code is verified against it.
func Enable2FAHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	user, err := userRepo.FindUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}
	if user.TwoFactorEnabled {
		utils.Conflict(c, "2FA is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      utils.JWTIssuer,
		AccountName: user.Username,
	})
	if err != nil {
		utils.InternalError(c, "Failed to generate 2FA secret")
		return
	}

	if err := userRepo.SetTwoFactor(ctx, userID, key.Secret(), false); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"secret":      key.Secret(),
		"otpauth_url": key.URL(),
		"message":     "Verify a code to finish enabling 2FA",
	})
}

// Verify2FAHandler checks a code against the pending secret and switches
// 2FA on.
func Verify2FAHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	var req twoFactorVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Verification code is required")
		return
	}

	user, err := userRepo.FindUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || user.TwoFactorSecret == "" {
		utils.BadRequest(c, "2FA setup has not been started")
		return
	}

	if !totp.Validate(req.Code, user.TwoFactorSecret) {
		utils.TrackAuthAttempt("failure", "2fa_verify")
		utils.Unauthorized(c, "Invalid 2FA code")
		return
	}

	if err := userRepo.SetTwoFactor(ctx, userID, user.TwoFactorSecret, true); err != nil {
		respondError(c, err)
		return
	}

	utils.TrackAuthAttempt("success", "2fa_verify")
	utils.Success(c, gin.H{"message": "2FA enabled"})
}

// Disable2FAHandler turns 2FA off after a final code check.
func Disable2FAHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	var req twoFactorVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Verification code is required")
		return
	}

	user, err := userRepo.FindUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || !user.TwoFactorEnabled {
		utils.BadRequest(c, "2FA is not enabled")
		return
	}

	if !totp.Validate(req.Code, user.TwoFactorSecret) {
		utils.Unauthorized(c, "Invalid 2FA code")
		return
	}

	if err := userRepo.SetTwoFactor(ctx, userID, "", false); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "2FA disabled"})
}
