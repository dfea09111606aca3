package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrInvalidPenalty       = errors.New("penalty must be zero or positive")
	ErrInvalidSection       = errors.New("section must be senior, junior or sub_junior")
	ErrInvalidEventSection  = errors.New("unknown applicable section")
	ErrInvalidCategory      = errors.New("category must be on_stage or off_stage")
	ErrInvalidGradeTier     = errors.New("grade tier must be A, B or C")
	ErrInvalidPosition      = errors.New("position must be first, second or third")
	ErrInvalidGrade         = errors.New("performance grade must be A, B or C")
	ErrInvalidAttendance    = errors.New("attendance must be pending, present or absent")
	ErrInvalidPoints        = errors.New("points must be zero or positive")
	ErrInvalidRole          = errors.New("role must be admin or team_leader")
	ErrLeaderTeamRequired   = errors.New("team leader must be bound to a team")
	ErrUnknownConfigKey     = errors.New("unknown config key")
	ErrInvalidConfigValue   = errors.New("invalid config value")
	ErrNotEligible          = errors.New("student is not eligible for this event")
	ErrGroupEventOnly       = errors.New("event is a group event; register the team instead")
	ErrIndividualEventOnly  = errors.New("event is an individual event; register a student instead")
	ErrEventFull            = errors.New("team has reached the participant limit for this event")
	ErrRegistrationClosed   = errors.New("registration is closed")
	ErrResultsNotPublished  = errors.New("results are not published yet")
	ErrDuplicateTeamResult  = errors.New("each team may appear only once in the results")
	ErrEventKindLocked      = errors.New("cannot switch an event between group and individual while it has entries")
	ErrSectionChangeBlocked = errors.New("student has registrations the new section is not eligible for")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrStorageNotConfigured = errors.New("file storage is not configured")

	// Ошибки конфликтов
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrChestNumberConflict  = errors.New("chest number is already in use")
	ErrEventCodeConflict    = errors.New("event code is already in use")
	ErrRegistrationConflict = errors.New("student is already registered for this event")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound          = errors.New("user not found")
	ErrTeamNotFound          = errors.New("team not found")
	ErrStudentNotFound       = errors.New("student not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrAssetNotFound         = errors.New("site asset not found")
)
