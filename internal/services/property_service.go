package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"

	"rentalsBack/internal/models"
	"rentalsBack/internal/repositories"
	"rentalsBack/internal/uploads"
)

type PropertyService struct {
	PropertyRepo *repositories.PropertyRepository
	ImageRepo    *repositories.PropertyImageRepository
	Uploads      uploads.Store
	ErrorLog     *log.Logger
}

// Create stores the property for its owner, with an optional primary image
// and any number of gallery images.
func (s *PropertyService) Create(ctx context.Context, p models.Property, primary *multipart.FileHeader, gallery []*multipart.FileHeader) (models.Property, error) {
	if primary != nil {
		ref, err := uploads.SaveFile(ctx, s.Uploads, primary)
		if err != nil {
			return models.Property{}, err
		}
		p.Image = &ref
	}

	created, err := s.PropertyRepo.CreateProperty(ctx, p)
	if err != nil {
		if p.Image != nil {
			s.removeFiles(ctx, *p.Image)
		}
		return models.Property{}, err
	}

	created.Images, err = s.attach(ctx, created.ID, gallery)
	if err != nil {
		if delErr := s.PropertyRepo.DeleteProperty(ctx, created.ID, created.OwnerID); delErr != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("roll back property %d: %v", created.ID, delErr)
		}
		if p.Image != nil {
			s.removeFiles(ctx, *p.Image)
		}
		return models.Property{}, err
	}
	return created, nil
}

// Update saves the edited fields. The primary image is replaced only when a
// new one is given; gallery uploads are appended. On error nothing of the edit
// is kept.
func (s *PropertyService) Update(ctx context.Context, p models.Property, primary *multipart.FileHeader, gallery []*multipart.FileHeader) (models.Property, error) {
	if _, err := s.PropertyRepo.GetOwnedProperty(ctx, p.ID, p.OwnerID); err != nil {
		return models.Property{}, err
	}

	var oldImage *string
	if primary != nil {
		ref, err := uploads.SaveFile(ctx, s.Uploads, primary)
		if err != nil {
			return models.Property{}, err
		}
		oldImage = p.Image
		p.Image = &ref
	}

	added, err := s.attach(ctx, p.ID, gallery)
	if err != nil {
		if primary != nil {
			s.removeFiles(ctx, *p.Image)
		}
		return models.Property{}, err
	}

	updated, err := s.PropertyRepo.UpdateProperty(ctx, p)
	if err != nil {
		s.detach(ctx, added)
		if primary != nil {
			s.removeFiles(ctx, *p.Image)
		}
		return models.Property{}, err
	}
	if oldImage != nil {
		s.removeFiles(ctx, *oldImage)
	}

	updated.Images, err = s.ImageRepo.GetImagesByProperty(ctx, updated.ID)
	if err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete removes an owned property. Rows for images and messages go with it
// in the database; stored files are removed afterwards and failures only logged.
func (s *PropertyService) Delete(ctx context.Context, id, ownerID int) error {
	p, err := s.PropertyRepo.GetOwnedProperty(ctx, id, ownerID)
	if err != nil {
		return err
	}
	images, err := s.ImageRepo.GetImagesByProperty(ctx, id)
	if err != nil {
		return err
	}
	if err := s.PropertyRepo.DeleteProperty(ctx, id, ownerID); err != nil {
		return err
	}

	refs := make([]string, 0, len(images)+1)
	if p.Image != nil {
		refs = append(refs, *p.Image)
	}
	for _, img := range images {
		refs = append(refs, img.Image)
	}
	s.removeFiles(ctx, refs...)
	return nil
}

// Get returns any property with its gallery, available or not.
func (s *PropertyService) Get(ctx context.Context, id int) (models.Property, error) {
	p, err := s.PropertyRepo.GetPropertyByID(ctx, id)
	if err != nil {
		return models.Property{}, err
	}
	p.Images, err = s.ImageRepo.GetImagesByProperty(ctx, id)
	if err != nil {
		return models.Property{}, err
	}
	return p, nil
}

// GetOwned returns the property only if ownerID owns it.
func (s *PropertyService) GetOwned(ctx context.Context, id, ownerID int) (models.Property, error) {
	p, err := s.PropertyRepo.GetOwnedProperty(ctx, id, ownerID)
	if err != nil {
		return models.Property{}, err
	}
	p.Images, err = s.ImageRepo.GetImagesByProperty(ctx, id)
	if err != nil {
		return models.Property{}, err
	}
	return p, nil
}

func (s *PropertyService) ListAvailable(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	return s.PropertyRepo.GetAvailableProperties(ctx, filter)
}

func (s *PropertyService) ListByOwner(ctx context.Context, ownerID int) ([]models.Property, error) {
	return s.PropertyRepo.GetPropertiesByOwner(ctx, ownerID)
}

// attach stores gallery files for the property. If one fails, the images
// added by this call are removed again.
func (s *PropertyService) attach(ctx context.Context, propertyID int, files []*multipart.FileHeader) ([]models.PropertyImage, error) {
	var images []models.PropertyImage
	for _, fh := range files {
		ref, err := uploads.SaveFile(ctx, s.Uploads, fh)
		if err != nil {
			s.detach(ctx, images)
			return nil, err
		}
		img, err := s.ImageRepo.AddImage(ctx, propertyID, ref)
		if err != nil {
			s.removeFiles(ctx, ref)
			s.detach(ctx, images)
			return nil, fmt.Errorf("attach image: %w", err)
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *PropertyService) detach(ctx context.Context, images []models.PropertyImage) {
	for _, img := range images {
		if err := s.ImageRepo.DeleteImage(ctx, img.ID); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("remove image row %d: %v", img.ID, err)
		}
		s.removeFiles(ctx, img.Image)
	}
}

func (s *PropertyService) removeFiles(ctx context.Context, refs ...string) {
	for _, ref := range refs {
		if err := s.Uploads.Delete(ctx, ref); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("remove image %s: %v", ref, err)
		}
	}
}
