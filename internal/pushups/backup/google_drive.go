package backup

import (
	"bytes"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	rootBackupsFolderName = "pushups-backup"
	folderMimeType        = "application/vnd.google-apps.folder"
)

// GoogleDriveUploader keeps backups in a single Drive folder, created on first use.
type GoogleDriveUploader struct {
	service         *drive.Service
	backupsFolderId string
	shareWith       string
}

// NewGoogleDriveUploader finds or creates the backups folder. When shareWith is set,
// every created file is shared with that account as a reader.
func NewGoogleDriveUploader(ctx context.Context, shareWith string, opts ...option.ClientOption) (*GoogleDriveUploader, error) {
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	u := &GoogleDriveUploader{
		service:   driveService,
		shareWith: shareWith,
	}

	rootFolderQuery := fmt.Sprintf("mimeType = '%s' and trashed = false and name = '%s'", folderMimeType, rootBackupsFolderName)
	backupFolders, err := driveService.
		Files.List().
		Q(rootFolderQuery).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	switch len(backupFolders.Files) {
	case 0:
		log.Debugln("root backups folder not found, creating ...")
		u.backupsFolderId, err = u.createRootBackupsFolder(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create root backups folder: %w", err)
		}
		log.Infof("new root backups folder created: %s", u.backupsFolderId)
	case 1:
		u.backupsFolderId = backupFolders.Files[0].Id
	default:
		u.backupsFolderId = backupFolders.Files[0].Id
		log.Warnf("found %d root backups folders, will take the first one: %s", len(backupFolders.Files), u.backupsFolderId)
	}

	return u, nil
}

func (u *GoogleDriveUploader) FolderID() string {
	return u.backupsFolderId
}

func (u *GoogleDriveUploader) Upload(ctx context.Context, name string, content []byte) (string, error) {
	fileMeta := &drive.File{
		Name:     name,
		MimeType: "application/json",
		Parents:  []string{u.backupsFolderId},
	}

	backupFile, err := u.service.
		Files.Create(fileMeta).
		Fields("id, parents").
		Media(bytes.NewReader(content)).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}

	if err := u.share(ctx, backupFile.Id); err != nil {
		return backupFile.Id, err
	}
	return backupFile.Id, nil
}

func (u *GoogleDriveUploader) createRootBackupsFolder(ctx context.Context) (string, error) {
	backupsFolderMeta := &drive.File{
		Name:     rootBackupsFolderName,
		MimeType: folderMimeType,
	}

	folder, err := u.service.
		Files.Create(backupsFolderMeta).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}

	if err := u.share(ctx, folder.Id); err != nil {
		return folder.Id, err
	}
	return folder.Id, nil
}

func (u *GoogleDriveUploader) share(ctx context.Context, fileId string) error {
	if u.shareWith == "" {
		return nil
	}

	permission := &drive.Permission{
		EmailAddress: u.shareWith,
		Type:         "user",
		Role:         "reader",
	}

	createdPermission, err := u.service.Permissions.
		Create(fileId, permission).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("share %s: %w", fileId, err)
	}

	log.Debugf("permission %s created for %s", createdPermission.Id, fileId)
	return nil
}
