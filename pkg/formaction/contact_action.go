package formaction

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/kcristiano/civicrm-wp-profile-sync/internal/tracing"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/civicrm"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/metadata"
	"github.com/kcristiano/civicrm-wp-profile-sync/pkg/models"
)

// ContactAction creates or updates one Contact and its sub-entities from
// a form submission. Persistence is deliberately failure-tolerant: the
// primary Contact save failing records a zero-ID result and stops the
// cascade, while any cascaded sub-entity failing is logged and skipped
// without affecting its siblings.
type ContactAction struct {
	config   ContactActionConfig
	services *civicrm.Services
	meta     *metadata.Service
	logger   ectologger.Logger

	// Configure caches these for schema building.
	publicFields      []models.FieldDescriptor
	locationTypes     []models.LocationType
	contactSubTypes   []string
	relationshipTypes []models.RelationshipType
	customGroups      []models.CustomGroup
	dedupeRules       []models.DedupeRule
	phoneTypes        models.OptionList
	imProviders       models.OptionList
	websiteTypes      models.OptionList
	freeMemberships   []models.MembershipType
}

// NewContactAction validates the config and creates the action.
func NewContactAction(config ContactActionConfig, services *civicrm.Services, meta *metadata.Service, logger ectologger.Logger) (*ContactAction, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}
	return &ContactAction{
		config:   config,
		services: services,
		meta:     meta,
		logger:   logger,
	}, nil
}

// Name returns the action's configured name.
func (a *ContactAction) Name() string {
	return a.config.Name
}

// Configure performs the metadata lookups the schema and pipeline need
// and caches them as action state. Call once before Fields or Make.
func (a *ContactAction) Configure(ctx context.Context) error {
	ctx, span := tracing.StartSpan(ctx, "formaction.ContactAction.Configure")
	defer span.End()

	var err error
	if a.publicFields, err = a.meta.PublicFields(ctx, models.EntityContact); err != nil {
		return err
	}
	if a.locationTypes, err = a.meta.LocationTypes(ctx); err != nil {
		return err
	}
	if a.dedupeRules, err = a.meta.DedupeRules(ctx, a.config.ContactType); err != nil {
		return err
	}
	if a.contactSubTypes, err = a.meta.SubTypesOf(ctx, a.config.ContactType); err != nil {
		return err
	}
	if a.relationshipTypes, err = a.meta.RelationshipTypes(ctx); err != nil {
		return err
	}
	if a.customGroups, err = a.meta.CustomGroups(ctx, a.config.ContactType); err != nil {
		return err
	}
	if a.phoneTypes, err = a.meta.OptionValues(ctx, "phone_type"); err != nil {
		return err
	}
	if a.imProviders, err = a.meta.OptionValues(ctx, "instant_messenger_service"); err != nil {
		return err
	}
	if a.websiteTypes, err = a.meta.OptionValues(ctx, "website_type"); err != nil {
		return err
	}
	if a.freeMemberships, err = a.services.Membership.FreeTypes(ctx); err != nil {
		return err
	}
	return nil
}

// Validate never rejects a submission: contact data has no hard
// requirements beyond what the form itself enforces. Kept for lifecycle
// symmetry with ParticipantAction.
func (a *ContactAction) Validate(ctx context.Context, sub *Submission) error {
	return nil
}

// Load pre-fills mapped form fields from the submitter's existing
// records. Returns nil when autoload is off or no contact resolves.
func (a *ContactAction) Load(ctx context.Context, sub *Submission) (map[string]string, error) {
	ctx, span := tracing.StartSpan(ctx, "formaction.ContactAction.Load")
	defer span.End()

	if !a.config.Autoload || !a.config.SubmittingContact {
		return nil, nil
	}

	contactID, err := a.submitterContactID(ctx, sub)
	if err != nil || contactID == 0 {
		return nil, err
	}
	contact, err := a.services.Contact.GetByID(ctx, contactID)
	if err != nil || contact == nil {
		return nil, err
	}

	prefill := map[string]string{}
	fill := func(refs map[string]string) {
		for name, ref := range refs {
			if ref == "" {
				continue
			}
			if value := contact.Field(name); value != "" {
				prefill[ref] = value
			}
		}
	}
	fill(a.config.PublicFieldRefs)
	fill(a.config.CustomFieldRefs)

	for _, row := range a.config.EmailRows {
		if row.EmailRef == "" {
			continue
		}
		email, err := a.services.Email.GetForContactLocation(ctx, contactID, row.LocationTypeID)
		if err != nil {
			return nil, err
		}
		if email != nil && email.Email != "" {
			prefill[row.EmailRef] = email.Email
		}
	}
	return prefill, nil
}

// Make runs the full persistence pipeline for one submission and stores
// the result under the action name.
func (a *ContactAction) Make(ctx context.Context, sub *Submission) *models.ActionResult {
	ctx, span := tracing.StartSpan(ctx, "formaction.ContactAction.Make")
	defer span.End()

	result := &models.ActionResult{
		ActionName: a.config.Name,
		Kind:       models.ActionKindContact,
	}

	// Extraction happens before the gate so relationship rows are parsed
	// exactly once per submission.
	contactFields := sub.extractFields(a.config.PublicFieldRefs)
	for name, value := range sub.extractFields(a.config.CustomFieldRefs) {
		contactFields[name] = value
	}
	relationshipRows := a.extractRelationships(ctx, sub)

	if !sub.gateOpen(a.config.ConditionalRef) {
		result.Contact = &models.Contact{}
		sub.Results.SaveResult(result)
		return result
	}

	contactID, err := a.resolveIdentity(ctx, sub, contactFields, relationshipRows)
	if err != nil {
		a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"action": a.config.Name,
		}).Error("contact identity resolution failed")
		result.Contact = &models.Contact{}
		sub.Results.SaveResult(result)
		return result
	}

	contact, err := a.saveContact(ctx, contactID, contactFields)
	if err != nil || contact == nil {
		a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"action": a.config.Name,
		}).Error("contact save failed")
		result.Contact = &models.Contact{}
		sub.Results.SaveResult(result)
		return result
	}
	result.Contact = contact

	a.enrollDomainGroup(ctx, contact.ID)

	// Cascade order is fixed; each step tolerates its own failures.
	result.Emails = a.makeEmails(ctx, sub, contact.ID)
	result.Relationships = a.makeRelationships(ctx, contact.ID, relationshipRows)
	result.Addresses = a.makeAddresses(ctx, sub, contact.ID)
	result.Websites = a.makeWebsites(ctx, sub, contact.ID)
	result.Phones = a.makePhones(ctx, sub, contact.ID)
	result.IMs = a.makeIMs(ctx, sub, contact.ID)
	result.Notes = a.makeNotes(ctx, sub, contact.ID)
	result.Tags = a.makeTags(ctx, sub, contact.ID)
	result.Groups = a.makeGroups(ctx, sub, contact.ID)
	if len(a.freeMemberships) > 0 {
		result.Memberships = a.makeMemberships(ctx, sub, contact.ID)
	}

	sub.Results.SaveResult(result)
	return result
}

// submitterContactID resolves the submitting contact: an authenticated
// session wins, otherwise the mailed checksum pair is validated against
// the store.
func (a *ContactAction) submitterContactID(ctx context.Context, sub *Submission) (int, error) {
	if sub.Submitter.LoggedInContactID != 0 {
		return sub.Submitter.LoggedInContactID, nil
	}
	if sub.Submitter.ContactID != 0 && sub.Submitter.Checksum != "" {
		return a.services.Contact.GetIDByChecksum(ctx, sub.Submitter.ContactID, sub.Submitter.Checksum)
	}
	return 0, nil
}

// resolveIdentity finds which existing Contact this action should
// update, or 0 to create. The submitter path and the related-contact
// path are mutually exclusive; dedupe matching is the fallback for both.
func (a *ContactAction) resolveIdentity(ctx context.Context, sub *Submission, fields map[string]string, rows []relationshipRow) (int, error) {
	if a.config.SubmittingContact {
		id, err := a.submitterContactID(ctx, sub)
		if err != nil {
			return 0, err
		}
		if id != 0 {
			return id, nil
		}
	} else {
		// A row that matched an existing relationship pins this contact
		// to the other end of that relationship.
		for _, row := range rows {
			if row.existing == nil {
				continue
			}
			if id := row.existing.RelatedContactID(row.relatedContactID); id != 0 {
				return id, nil
			}
		}
	}

	input := models.ContactInput{
		ContactType: a.config.ContactType,
		Fields:      a.dedupeFields(sub, fields),
	}
	if a.config.DedupeRuleID != 0 {
		return a.services.Contact.GetByDedupeRule(ctx, input, a.config.DedupeRuleID)
	}
	return a.services.Contact.GetByDedupeUnsupervised(ctx, input)
}

// dedupeFields merges the primary email row's answer into a copy of the
// mapped fields so email-based dedupe rules can match. Only the copy
// sees the email; the record itself is persisted by the email cascade.
func (a *ContactAction) dedupeFields(sub *Submission, fields map[string]string) map[string]string {
	merged := make(map[string]string, len(fields)+1)
	for name, value := range fields {
		merged[name] = value
	}
	for _, row := range a.config.EmailRows {
		if !row.IsPrimary {
			continue
		}
		if address := sub.StringValue(row.EmailRef); address != "" {
			merged["email"] = address
		}
	}
	return merged
}

// saveContact writes the contact and re-reads the full record. Updates
// union the configured sub-type with the record's existing sub-types.
func (a *ContactAction) saveContact(ctx context.Context, contactID int, fields map[string]string) (*models.Contact, error) {
	input := models.ContactInput{
		ID:          contactID,
		ContactType: a.config.ContactType,
		Fields:      fields,
	}
	if a.config.ContactSubType != "" {
		input.ContactSubType = []string{a.config.ContactSubType}
	}

	if contactID != 0 {
		existing, err := a.services.Contact.GetByID(ctx, contactID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			input.ContactSubType = unionSubTypes(existing.ContactSubType, input.ContactSubType)
		}
	}

	savedID, err := a.services.Contact.Save(ctx, input)
	if err != nil {
		return nil, err
	}
	return a.services.Contact.GetByID(ctx, savedID)
}

func unionSubTypes(existing, added []string) []string {
	out := make([]string, 0, len(existing)+len(added))
	seen := map[string]bool{}
	for _, s := range append(append([]string{}, existing...), added...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// enrollDomainGroup adds the contact to the store's domain group when
// one is configured. Failure here never affects the submission.
func (a *ContactAction) enrollDomainGroup(ctx context.Context, contactID int) {
	groupID, err := a.services.Setting.DomainGroupID(ctx)
	if err != nil {
		a.logger.WithContext(ctx).WithError(err).Warn("domain group lookup failed")
		return
	}
	if groupID == 0 {
		return
	}
	if _, err := a.services.Group.AddContact(ctx, contactID, groupID); err != nil {
		a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"contact_id": contactID,
			"group_id":   groupID,
		}).Warn("domain group enrolment failed")
	}
}
