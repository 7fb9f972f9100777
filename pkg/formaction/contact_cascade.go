package formaction

import (
	"context"
	"strconv"

	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// The cascade steps below all follow the same failure policy: a closed
// gate or an empty mapped value skips the row silently, a store failure
// logs and skips the row, and whatever persisted is reported.

func (a *ContactAction) makeEmails(ctx context.Context, sub *Submission, contactID int) []models.Email {
	var saved []models.Email
	for _, row := range a.config.EmailRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}
		address := sub.StringValue(row.EmailRef)
		if address == "" {
			continue
		}

		email, err := a.services.Email.RecordUpdate(ctx, contactID, row.LocationTypeID, address)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action":           a.config.Name,
				"location_type_id": row.LocationTypeID,
			}).Warn("email save failed")
			continue
		}
		saved = append(saved, *email)
	}
	return saved
}

func (a *ContactAction) makeAddresses(ctx context.Context, sub *Submission, contactID int) []models.Address {
	var saved []models.Address
	for _, row := range a.config.AddressRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}

		fields := sub.extractFields(row.FieldRefs)
		if row.IncludeEmpty {
			// Force every mapped field into the payload so unanswered
			// inputs clear their stored values on update.
			for name, ref := range row.FieldRefs {
				if ref == "" {
					continue
				}
				if _, ok := fields[name]; !ok {
					fields[name] = ""
				}
			}
		}
		if len(fields) == 0 {
			continue
		}

		address, err := a.services.Address.RecordUpdate(ctx, contactID, row.LocationTypeID, fields)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action":           a.config.Name,
				"location_type_id": row.LocationTypeID,
			}).Warn("address save failed")
			continue
		}
		saved = append(saved, *address)
	}
	return saved
}

func (a *ContactAction) makeWebsites(ctx context.Context, sub *Submission, contactID int) []models.Website {
	var saved []models.Website
	for _, row := range a.config.WebsiteRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}
		rawURL := sub.StringValue(row.URLRef)
		if rawURL == "" {
			continue
		}

		website, err := a.services.Website.RecordUpdate(ctx, contactID, row.WebsiteTypeID, rawURL)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action":          a.config.Name,
				"website_type_id": row.WebsiteTypeID,
			}).Warn("website save failed")
			continue
		}
		saved = append(saved, *website)
	}
	return saved
}

func (a *ContactAction) makePhones(ctx context.Context, sub *Submission, contactID int) []models.Phone {
	var saved []models.Phone
	for _, row := range a.config.PhoneRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}
		number := sub.StringValue(row.PhoneRef)
		if number == "" {
			continue
		}

		existing, err := a.services.Phone.GetByTypePair(ctx, contactID, row.LocationTypeID, row.PhoneTypeID)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).Warn("phone lookup failed")
			continue
		}
		// More than one record at the same type pair is ambiguous; there
		// is no way to know which one the form means.
		if len(existing) > 1 {
			a.logger.WithContext(ctx).WithFields(map[string]any{
				"action":           a.config.Name,
				"location_type_id": row.LocationTypeID,
				"phone_type_id":    row.PhoneTypeID,
			}).Warn("skipping phone row: multiple existing records at type pair")
			continue
		}

		id := 0
		if len(existing) == 1 {
			id = existing[0].ID
		}
		phone, err := a.services.Phone.Save(ctx, id, contactID, row.LocationTypeID, row.PhoneTypeID, number)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action":           a.config.Name,
				"location_type_id": row.LocationTypeID,
				"phone_type_id":    row.PhoneTypeID,
			}).Warn("phone save failed")
			continue
		}
		saved = append(saved, *phone)
	}
	return saved
}

func (a *ContactAction) makeIMs(ctx context.Context, sub *Submission, contactID int) []models.IM {
	var saved []models.IM
	for _, row := range a.config.IMRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}
		name := sub.StringValue(row.NameRef)
		if name == "" {
			continue
		}

		existing, err := a.services.IM.GetByTypePair(ctx, contactID, row.LocationTypeID, row.ProviderID)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).Warn("im lookup failed")
			continue
		}
		if len(existing) > 1 {
			a.logger.WithContext(ctx).WithFields(map[string]any{
				"action":           a.config.Name,
				"location_type_id": row.LocationTypeID,
				"provider_id":      row.ProviderID,
			}).Warn("skipping im row: multiple existing records at type pair")
			continue
		}

		id := 0
		if len(existing) == 1 {
			id = existing[0].ID
		}
		im, err := a.services.IM.Save(ctx, id, contactID, row.LocationTypeID, row.ProviderID, name)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action": a.config.Name,
			}).Warn("im save failed")
			continue
		}
		saved = append(saved, *im)
	}
	return saved
}

func (a *ContactAction) makeNotes(ctx context.Context, sub *Submission, contactID int) []models.Note {
	var saved []models.Note
	for _, row := range a.config.NoteRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}
		text := sub.StringValue(row.NoteRef)
		if text == "" {
			continue
		}

		note, err := a.services.Note.CreateForContact(ctx, contactID, sub.StringValue(row.SubjectRef), text)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action": a.config.Name,
			}).Warn("note create failed")
			continue
		}
		saved = append(saved, *note)
	}
	return saved
}

func (a *ContactAction) makeTags(ctx context.Context, sub *Submission, contactID int) []int {
	var applied []int
	for _, row := range a.config.TagRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}
		for _, tagID := range row.TagIDs {
			// Already-tagged counts as success: the contact carries the
			// tag either way.
			if _, err := a.services.Tag.AddToContact(ctx, contactID, tagID); err != nil {
				a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
					"action": a.config.Name,
					"tag_id": tagID,
				}).Warn("tag apply failed")
				continue
			}
			applied = append(applied, tagID)
		}
	}
	return applied
}

func (a *ContactAction) makeGroups(ctx context.Context, sub *Submission, contactID int) []int {
	var enrolled []int
	for _, row := range a.config.GroupRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}

		var err error
		if row.DoubleOptIn {
			_, err = a.services.Group.AddContactDoubleOptIn(ctx, contactID, row.GroupID)
		} else {
			_, err = a.services.Group.AddContact(ctx, contactID, row.GroupID)
		}
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action":   a.config.Name,
				"group_id": row.GroupID,
			}).Warn("group enrolment failed")
			continue
		}
		enrolled = append(enrolled, row.GroupID)
	}
	return enrolled
}

func (a *ContactAction) makeMemberships(ctx context.Context, sub *Submission, contactID int) []models.Membership {
	var saved []models.Membership
	for _, row := range a.config.MembershipRows {
		if !sub.gateOpen(row.ConditionalRef) {
			continue
		}

		current, err := a.services.Membership.HasCurrent(ctx, contactID, row.MembershipTypeID)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).Warn("membership lookup failed")
			continue
		}
		if current {
			continue
		}

		fields := sub.extractFields(row.FieldRefs)
		if row.CampaignID != 0 {
			fields["campaign_id"] = strconv.Itoa(row.CampaignID)
		}

		membership, err := a.services.Membership.Create(ctx, contactID, row.MembershipTypeID, fields)
		if err != nil {
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"action":             a.config.Name,
				"membership_type_id": row.MembershipTypeID,
			}).Warn("membership create failed")
			continue
		}
		saved = append(saved, *membership)
	}
	return saved
}
