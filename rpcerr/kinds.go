package rpcerr

// Generic placeholder kinds, one per category. A tag that is missing from
// its category's table classifies to the category's generic kind.
const (
	KindSeeOther       Kind = "SEE_OTHER"
	KindBadRequest     Kind = "BAD_REQUEST"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindForbidden      Kind = "FORBIDDEN"
	KindNotAcceptable  Kind = "NOT_ACCEPTABLE"
	KindFlood          Kind = "FLOOD"
	KindInternalServer Kind = "INTERNAL_SERVER_ERROR"
	KindUnknown        Kind = "UNKNOWN_ERROR"
)

// 303 SEE_OTHER kinds. All carry the datacenter to migrate to.
const (
	KindFileMigrate    Kind = "FILE_MIGRATE_X"
	KindPhoneMigrate   Kind = "PHONE_MIGRATE_X"
	KindNetworkMigrate Kind = "NETWORK_MIGRATE_X"
	KindUserMigrate    Kind = "USER_MIGRATE_X"
)

// 400 BAD_REQUEST kinds.
const (
	KindAboutTooLong         Kind = "ABOUT_TOO_LONG"
	KindAPIIDInvalid         Kind = "API_ID_INVALID"
	KindBotTokenInvalid      Kind = "BOT_TOKEN_INVALID"
	KindChannelInvalid       Kind = "CHANNEL_INVALID"
	KindChatAdminRequired    Kind = "CHAT_ADMIN_REQUIRED"
	KindChatIDInvalid        Kind = "CHAT_ID_INVALID"
	KindDCIDInvalid          Kind = "DC_ID_INVALID"
	KindFileIDInvalid        Kind = "FILE_ID_INVALID"
	KindFilePartMissing      Kind = "FILE_PART_X_MISSING"
	KindFilePartsInvalid     Kind = "FILE_PARTS_INVALID"
	KindFirstnameInvalid     Kind = "FIRSTNAME_INVALID"
	KindLastnameInvalid      Kind = "LASTNAME_INVALID"
	KindMessageEmpty         Kind = "MESSAGE_EMPTY"
	KindMessageIDInvalid     Kind = "MESSAGE_ID_INVALID"
	KindMessageNotModified   Kind = "MESSAGE_NOT_MODIFIED"
	KindMessageTooLong       Kind = "MESSAGE_TOO_LONG"
	KindPackShortNameInvalid Kind = "PACK_SHORT_NAME_INVALID"
	KindPeerFlood            Kind = "PEER_FLOOD"
	KindPeerIDInvalid        Kind = "PEER_ID_INVALID"
	KindPhoneCodeEmpty       Kind = "PHONE_CODE_EMPTY"
	KindPhoneCodeExpired     Kind = "PHONE_CODE_EXPIRED"
	KindPhoneCodeInvalid     Kind = "PHONE_CODE_INVALID"
	KindPhoneNumberBanned    Kind = "PHONE_NUMBER_BANNED"
	KindPhoneNumberInvalid   Kind = "PHONE_NUMBER_INVALID"
	KindQueryIDInvalid       Kind = "QUERY_ID_INVALID"
	KindUsernameInvalid      Kind = "USERNAME_INVALID"
	KindUsernameNotOccupied  Kind = "USERNAME_NOT_OCCUPIED"
	KindUsernameOccupied     Kind = "USERNAME_OCCUPIED"
)

// 401 UNAUTHORIZED kinds.
const (
	KindActiveUserRequired    Kind = "ACTIVE_USER_REQUIRED"
	KindAuthKeyInvalid        Kind = "AUTH_KEY_INVALID"
	KindAuthKeyPermEmpty      Kind = "AUTH_KEY_PERM_EMPTY"
	KindAuthKeyUnregistered   Kind = "AUTH_KEY_UNREGISTERED"
	KindSessionExpired        Kind = "SESSION_EXPIRED"
	KindSessionPasswordNeeded Kind = "SESSION_PASSWORD_NEEDED"
	KindSessionRevoked        Kind = "SESSION_REVOKED"
	KindUserDeactivated       Kind = "USER_DEACTIVATED"
)

// 403 FORBIDDEN kinds.
const (
	KindChatAdminInviteRequired Kind = "CHAT_ADMIN_INVITE_REQUIRED"
	KindChatWriteForbidden      Kind = "CHAT_WRITE_FORBIDDEN"
	KindMessageAuthorRequired   Kind = "MESSAGE_AUTHOR_REQUIRED"
	KindMessageDeleteForbidden  Kind = "MESSAGE_DELETE_FORBIDDEN"
	KindRightForbidden          Kind = "RIGHT_FORBIDDEN"
)

// 406 NOT_ACCEPTABLE kinds.
const (
	KindAuthKeyDuplicated    Kind = "AUTH_KEY_DUPLICATED"
	KindFilerefUpgradeNeeded Kind = "FILEREF_UPGRADE_NEEDED"
)

// 420 FLOOD kinds. All carry a wait duration in seconds.
const (
	KindFloodWait          Kind = "FLOOD_WAIT_X"
	KindFloodTestPhoneWait Kind = "FLOOD_TEST_PHONE_WAIT_X"
	KindSlowmodeWait       Kind = "SLOWMODE_WAIT_X"
	KindTakeoutInitDelay   Kind = "TAKEOUT_INIT_DELAY_X"
)

// categoryTable holds the kinds registered under one category.
type categoryTable struct {
	generic Kind
	kinds   map[Kind]string // canonical tag -> description

	// matchAny resolves every tag to the generic kind without an unknown
	// record. Used for 500: the server attaches free-form tags to internal
	// failures and logging them as unknown would be pure noise.
	matchAny bool
}

var registry = map[Category]*categoryTable{
	CategorySeeOther: {
		generic: KindSeeOther,
		kinds: map[Kind]string{
			KindFileMigrate:    "the file being accessed is stored in datacenter X",
			KindPhoneMigrate:   "the phone number is registered on datacenter X",
			KindNetworkMigrate: "the current network must connect through datacenter X",
			KindUserMigrate:    "the user account is located on datacenter X",
		},
	},
	CategoryBadRequest: {
		generic: KindBadRequest,
		kinds: map[Kind]string{
			KindAboutTooLong:         "the provided about/bio text is too long",
			KindAPIIDInvalid:         "the api_id/api_hash combination is invalid",
			KindBotTokenInvalid:      "the bot token is invalid",
			KindChannelInvalid:       "the channel parameter is invalid",
			KindChatAdminRequired:    "the action requires chat admin privileges",
			KindChatIDInvalid:        "the chat id is invalid",
			KindDCIDInvalid:          "the datacenter id is invalid",
			KindFileIDInvalid:        "the file id is invalid",
			KindFilePartMissing:      "part X of the file is missing from storage",
			KindFilePartsInvalid:     "the number of file parts is invalid",
			KindFirstnameInvalid:     "the first name is invalid",
			KindLastnameInvalid:      "the last name is invalid",
			KindMessageEmpty:         "the message sent is empty",
			KindMessageIDInvalid:     "the message id is invalid",
			KindMessageNotModified:   "the edited message content is identical to the original",
			KindMessageTooLong:       "the message text exceeds the maximum length",
			KindPackShortNameInvalid: "the sticker pack short name is invalid",
			KindPeerFlood:            "the account is limited for spam-like activity",
			KindPeerIDInvalid:        "the peer id is invalid",
			KindPhoneCodeEmpty:       "the confirmation code is missing",
			KindPhoneCodeExpired:     "the confirmation code has expired",
			KindPhoneCodeInvalid:     "the confirmation code is invalid",
			KindPhoneNumberBanned:    "the phone number is banned from Telegram",
			KindPhoneNumberInvalid:   "the phone number is invalid",
			KindQueryIDInvalid:       "the callback query id is invalid",
			KindUsernameInvalid:      "the username is invalid",
			KindUsernameNotOccupied:  "the username is not taken by anyone",
			KindUsernameOccupied:     "the username is already taken",
		},
	},
	CategoryUnauthorized: {
		generic: KindUnauthorized,
		kinds: map[Kind]string{
			KindActiveUserRequired:    "the method is only available to already activated users",
			KindAuthKeyInvalid:        "the authorization key is invalid",
			KindAuthKeyPermEmpty:      "the temporary authorization key has no permissions",
			KindAuthKeyUnregistered:   "the authorization key is not registered on the server",
			KindSessionExpired:        "the session has expired",
			KindSessionPasswordNeeded: "two-step verification is enabled, a password is required",
			KindSessionRevoked:        "the session was revoked by the user from another device",
			KindUserDeactivated:       "the user account has been deleted or deactivated",
		},
	},
	CategoryForbidden: {
		generic: KindForbidden,
		kinds: map[Kind]string{
			KindChatAdminInviteRequired: "only chat admins may invite new members",
			KindChatWriteForbidden:      "writing to this chat is not allowed",
			KindMessageAuthorRequired:   "only the author of the message may perform the action",
			KindMessageDeleteForbidden:  "the message cannot be deleted",
			KindRightForbidden:          "one or more admin rights cannot be applied",
		},
	},
	CategoryNotAcceptable: {
		generic: KindNotAcceptable,
		kinds: map[Kind]string{
			KindAuthKeyDuplicated:    "the same authorization key is used from two different IP addresses",
			KindFilerefUpgradeNeeded: "the file reference has expired and must be refreshed",
		},
	},
	CategoryFlood: {
		generic: KindFlood,
		kinds: map[Kind]string{
			KindFloodWait:          "the request must be repeated after waiting X seconds",
			KindFloodTestPhoneWait: "a wait of X seconds is required on the test environment",
			KindSlowmodeWait:       "slowmode is enabled, wait X seconds before sending again",
			KindTakeoutInitDelay:   "the data export session will start in X seconds",
		},
	},
	CategoryInternalServer: {
		generic:  KindInternalServer,
		kinds:    map[Kind]string{},
		matchAny: true,
	},
}

// ParentCategory returns the category a kind belongs to. Every kind has
// exactly one parent category; the generic and unknown kinds are included.
func (k Kind) ParentCategory() Category {
	switch k {
	case KindSeeOther:
		return CategorySeeOther
	case KindBadRequest:
		return CategoryBadRequest
	case KindUnauthorized:
		return CategoryUnauthorized
	case KindForbidden:
		return CategoryForbidden
	case KindNotAcceptable:
		return CategoryNotAcceptable
	case KindFlood:
		return CategoryFlood
	case KindInternalServer:
		return CategoryInternalServer
	case KindUnknown:
		return CategoryUnknown
	}
	for cat, table := range registry {
		if _, ok := table.kinds[k]; ok {
			return cat
		}
	}
	return CategoryUnknown
}

// Description returns the registered human-readable description of a kind,
// or an empty string for unregistered kinds.
func (k Kind) Description() string {
	switch k {
	case KindSeeOther:
		return "the request must be repeated, but directed to a different datacenter"
	case KindBadRequest:
		return "the query contains errors and must be corrected before resending"
	case KindUnauthorized:
		return "the session has no valid authorization for this request"
	case KindForbidden:
		return "privacy violation, the action is not permitted"
	case KindNotAcceptable:
		return "the request is correct but cannot be served"
	case KindFlood:
		return "too many requests, the rate limit was hit"
	case KindInternalServer:
		return "an internal server error occurred while processing the request"
	case KindUnknown:
		return "an error unknown to the library occurred"
	}
	if table, ok := registry[k.ParentCategory()]; ok {
		return table.kinds[k]
	}
	return ""
}

// RegisteredKind is one row of the classification table, exported for
// consumers that enumerate the taxonomy (see package catalog).
type RegisteredKind struct {
	Category    Category
	Kind        Kind
	Description string
	Generic     bool
}

// Registered returns every kind in the classification table, generic kinds
// included. The order is unspecified.
func Registered() []RegisteredKind {
	var out []RegisteredKind
	for cat, table := range registry {
		out = append(out, RegisteredKind{
			Category:    cat,
			Kind:        table.generic,
			Description: table.generic.Description(),
			Generic:     true,
		})
		for kind, desc := range table.kinds {
			out = append(out, RegisteredKind{Category: cat, Kind: kind, Description: desc})
		}
	}
	out = append(out, RegisteredKind{
		Category:    CategoryUnknown,
		Kind:        KindUnknown,
		Description: KindUnknown.Description(),
		Generic:     true,
	})
	return out
}
