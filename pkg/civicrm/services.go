package civicrm

import (
	"github.com/Gobusters/ectologger"
)

// Services bundles the typed entity services over a single API transport.
type Services struct {
	Contact      *ContactService
	Email        *EmailService
	Phone        *PhoneService
	IM           *IMService
	Address      *AddressService
	Website      *WebsiteService
	Relationship *RelationshipService
	Note         *NoteService
	Tag          *TagService
	Group        *GroupService
	Membership   *MembershipService
	Participant  *ParticipantService
	Event        *EventService
	Setting      *SettingService
}

// NewServices creates the full service set over the given transport.
func NewServices(api API, logger ectologger.Logger) *Services {
	return &Services{
		Contact:      NewContactService(api, logger),
		Email:        NewEmailService(api, logger),
		Phone:        NewPhoneService(api, logger),
		IM:           NewIMService(api, logger),
		Address:      NewAddressService(api, logger),
		Website:      NewWebsiteService(api, logger),
		Relationship: NewRelationshipService(api, logger),
		Note:         NewNoteService(api, logger),
		Tag:          NewTagService(api, logger),
		Group:        NewGroupService(api, logger),
		Membership:   NewMembershipService(api, logger),
		Participant:  NewParticipantService(api, logger),
		Event:        NewEventService(api, logger),
		Setting:      NewSettingService(api, logger),
	}
}
